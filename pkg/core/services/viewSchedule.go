package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
	"github.com/crewcall-tv/crewcall/pkg/db"
)

// DateBucket labels a group of productions in the schedule view.
type DateBucket string

const (
	BucketToday    DateBucket = "Today"
	BucketThisWeek DateBucket = "This Week"
	BucketLater    DateBucket = "Later"
	BucketPast     DateBucket = "Past"
)

// ScheduleGroup is one date bucket of the schedule, productions sorted
// by date ascending.
type ScheduleGroup struct {
	Bucket      DateBucket
	Productions []model.Production
}

// ViewSchedule lists all productions grouped into date buckets, the
// grouping the schedule screens apply client-side.
func ViewSchedule(ctx context.Context, productions db.ProductionStore, logger *zap.Logger, now time.Time) ([]ScheduleGroup, error) {
	all, err := productions.ListProductions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch productions: %w", err)
	}

	logger.Debug("Grouping schedule", zap.Int("productions", len(all)))

	return GroupByDate(all, now), nil
}

// MySchedule lists the productions an operator is assigned to, grouped
// the same way. Assignments whose production cannot be fetched are
// skipped.
func MySchedule(
	ctx context.Context,
	session Session,
	assignments db.AssignmentStore,
	productions db.ProductionStore,
	logger *zap.Logger,
	now time.Time,
) ([]ScheduleGroup, error) {
	mine, err := assignments.GetAssignmentsByUser(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	seen := make(map[string]bool, len(mine))
	var result []model.Production
	for _, assignment := range mine {
		if seen[assignment.ProductionID] {
			continue
		}
		seen[assignment.ProductionID] = true

		production, err := productions.GetProduction(ctx, assignment.ProductionID)
		if err != nil {
			logger.Warn("Skipping assignment with unfetchable production",
				zap.String("production_id", assignment.ProductionID),
				zap.Error(err))
			continue
		}
		result = append(result, *production)
	}

	return GroupByDate(result, now), nil
}

// GroupByDate partitions productions into Past / Today / This Week /
// Later buckets relative to now, each bucket sorted by date ascending.
// Empty buckets are omitted.
func GroupByDate(productions []model.Production, now time.Time) []ScheduleGroup {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekEnd := today.AddDate(0, 0, 7)

	buckets := map[DateBucket][]model.Production{}
	for _, production := range productions {
		day := time.Date(production.Date.Year(), production.Date.Month(), production.Date.Day(), 0, 0, 0, 0, time.UTC)
		var bucket DateBucket
		switch {
		case day.Before(today):
			bucket = BucketPast
		case day.Equal(today):
			bucket = BucketToday
		case day.Before(weekEnd):
			bucket = BucketThisWeek
		default:
			bucket = BucketLater
		}
		buckets[bucket] = append(buckets[bucket], production)
	}

	var groups []ScheduleGroup
	for _, bucket := range []DateBucket{BucketToday, BucketThisWeek, BucketLater, BucketPast} {
		entries := buckets[bucket]
		if len(entries) == 0 {
			continue
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Date.Before(entries[j].Date)
		})
		groups = append(groups, ScheduleGroup{Bucket: bucket, Productions: entries})
	}

	return groups
}

// ListNotifications returns a user's notifications, newest first, plus
// the unread count.
func ListNotifications(ctx context.Context, session Session, notifications db.NotificationStore) ([]model.Notification, int, error) {
	records, err := notifications.ListNotificationsForUser(ctx, session.UserID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	unread := 0
	for _, record := range records {
		if !record.Read {
			unread++
		}
	}

	return records, unread, nil
}

// MarkNotificationRead flags a single notification as read.
func MarkNotificationRead(ctx context.Context, notifications db.NotificationStore, id string) error {
	if err := notifications.MarkNotificationRead(ctx, id); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
