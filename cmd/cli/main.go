package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/crewcall-tv/crewcall/internal/config"
	"github.com/crewcall-tv/crewcall/pkg/clients/authclient"
	"github.com/crewcall-tv/crewcall/pkg/clients/fcmclient"
	"github.com/crewcall-tv/crewcall/pkg/clients/gmailclient"
	"github.com/crewcall-tv/crewcall/pkg/core/model"
	"github.com/crewcall-tv/crewcall/pkg/core/services"
	"github.com/crewcall-tv/crewcall/pkg/core/staffing"
	"github.com/crewcall-tv/crewcall/pkg/firestore"
	"github.com/crewcall-tv/crewcall/pkg/utils"
	"github.com/crewcall-tv/crewcall/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg         *config.Config
	oauthCfg    *config.OAuthClientConfig
	store       *firestore.Store
	authClient  *authclient.Client
	fcmClient   *fcmclient.Client
	gmailClient *gmailclient.Client
	notifier    *services.Notifier
	session     services.Session
	logger      *zap.Logger
	ctx         context.Context
}

var (
	env    string
	userID string
	app    *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "crewcall",
		Short: "CrewCall CLI - Manage TV production crew bookings",
		Long:  `A CLI tool for requesting productions, staffing crew assignments, and tracking the production schedule.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
			if app != nil && app.store != nil {
				app.store.Close()
			}
		},
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "Acting user id (required)")
	rootCmd.MarkPersistentFlagRequired("env")
	rootCmd.MarkPersistentFlagRequired("user")

	// Add all commands
	rootCmd.AddCommand(requestProductionCmd())
	rootCmd.AddCommand(listProductionsCmd())
	rootCmd.AddCommand(myScheduleCmd())
	rootCmd.AddCommand(staffProductionCmd())
	rootCmd.AddCommand(confirmProductionCmd())
	rootCmd.AddCommand(startProductionCmd())
	rootCmd.AddCommand(completeProductionCmd())
	rootCmd.AddCommand(cancelProductionCmd())
	rootCmd.AddCommand(respondAssignmentCmd())
	rootCmd.AddCommand(listNotificationsCmd())
	rootCmd.AddCommand(markNotificationReadCmd())
	rootCmd.AddCommand(registerPushTokenCmd())
	rootCmd.AddCommand(exportCallSheetCmd())
	rootCmd.AddCommand(interactiveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, clients, store, and the acting session
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	// Initialize logger
	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.logger.Info("Loading configuration")
	app.cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	// Load OAuth client configuration
	app.logger.Info("Loading OAuth client configuration")
	app.oauthCfg, err = config.LoadOAuthClientWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load OAuth client config: %w", err)
	}
	app.logger.Debug("OAuth configuration loaded successfully")

	// Connect to Firestore
	app.logger.Info("Connecting to Firestore", zap.String("project_id", app.cfg.FirebaseProjectID))
	app.store, err = firestore.NewStore(app.ctx, app.cfg.FirebaseProjectID, app.cfg.FirebaseCredentialsPath)
	if err != nil {
		return fmt.Errorf("failed to connect to firestore: %w", err)
	}
	app.logger.Debug("Firestore connected successfully")

	// Initialize auth client
	app.logger.Info("Initializing auth client")
	app.authClient, err = authclient.NewClient(app.ctx, app.cfg.FirebaseCredentialsPath)
	if err != nil {
		return fmt.Errorf("failed to create auth client: %w", err)
	}

	// Initialize FCM client
	app.logger.Info("Initializing messaging client")
	app.fcmClient, err = fcmclient.NewClient(app.ctx, app.cfg.FirebaseCredentialsPath)
	if err != nil {
		return fmt.Errorf("failed to create messaging client: %w", err)
	}

	// Initialize gmail client
	app.logger.Info("Initializing gmail client")
	oauthConfig, err := utils.GetOAuthConfig(app.oauthCfg)
	if err != nil {
		return fmt.Errorf("failed to get oauth config: %w", err)
	}
	token, err := utils.GetTokenWithFlow(app.ctx, oauthConfig, env)
	if err != nil {
		return fmt.Errorf("failed to get oauth token: %w", err)
	}
	app.gmailClient, err = gmailclient.NewClient(app.ctx, app.oauthCfg, token)
	if err != nil {
		return fmt.Errorf("failed to create gmail client: %w", err)
	}
	app.logger.Debug("Gmail client initialized successfully")

	app.notifier = services.NewNotifier(app.store.Notifications, app.store.Users, app.fcmClient, app.gmailClient, app.logger)

	// Resolve the acting user into a session
	app.session, err = app.authClient.SessionForUser(app.ctx, app.store.Users, userID)
	if err != nil {
		return fmt.Errorf("failed to resolve acting user: %w", err)
	}
	app.logger.Info("Session established",
		zap.String("user_id", app.session.UserID),
		zap.String("role", string(app.session.Role)))

	return nil
}

// Command definitions

func requestProductionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requestProduction <name> <venue> <date>",
		Short: "Request a new production (producer only)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := time.Parse("2006-01-02", args[2])
			if err != nil {
				return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
			}

			request := services.ProductionRequest{
				Name:         args[0],
				Venue:        args[1],
				Date:         date,
				Requirements: map[model.CrewRole]int{},
			}

			callTime, _ := cmd.Flags().GetString("call")
			startTime, _ := cmd.Flags().GetString("start")
			endTime, _ := cmd.Flags().GetString("end")
			if request.CallTime, err = parseClock(date, callTime); err != nil {
				return err
			}
			if request.StartTime, err = parseClock(date, startTime); err != nil {
				return err
			}
			if request.EndTime, err = parseClock(date, endTime); err != nil {
				return err
			}

			request.LocationDetails, _ = cmd.Flags().GetString("location")
			request.Notes, _ = cmd.Flags().GetString("notes")
			request.Recurrence, _ = cmd.Flags().GetString("recurrence")
			request.Occurrences, _ = cmd.Flags().GetInt("occurrences")
			if request.Recurrence == "" && app.cfg.DefaultRecurrence != "" {
				repeat, _ := cmd.Flags().GetBool("repeat")
				if repeat {
					request.Recurrence = app.cfg.DefaultRecurrence
					if request.Occurrences == 0 {
						request.Occurrences = app.cfg.DefaultOccurrences
					}
				}
			}

			needs, _ := cmd.Flags().GetStringSlice("need")
			for _, need := range needs {
				role, count, err := parseNeed(need)
				if err != nil {
					return err
				}
				request.Requirements[role] = count
			}

			result, err := services.RequestProduction(
				app.ctx,
				app.session,
				app.store.Productions,
				app.store.Requirements,
				app.store.Users,
				app.notifier,
				app.logger,
				request,
			)
			if err != nil {
				return err
			}

			// Display results
			fmt.Printf("\n✓ Production request created!\n\n")
			if result.SeriesID != "" {
				fmt.Printf("Series ID: %s\n\n", result.SeriesID)
			}
			for _, production := range result.Productions {
				fmt.Printf("  %s  %s at %s (%s)\n",
					production.Date.Format("2006-01-02"),
					production.Name,
					production.Venue,
					production.ID)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("call", "", "Call time (HH:MM)")
	cmd.Flags().String("start", "", "Start time (HH:MM)")
	cmd.Flags().String("end", "", "End time (HH:MM)")
	cmd.Flags().String("location", "", "Location details within the venue")
	cmd.Flags().String("notes", "", "Notes for the booking officer")
	cmd.Flags().StringSlice("need", nil, "Crew requirement as role=count (repeatable, e.g. camera=2)")
	cmd.Flags().String("recurrence", "", "RRULE recurrence (e.g. FREQ=WEEKLY;COUNT=4)")
	cmd.Flags().Int("occurrences", 0, "Occurrences to create for a recurrence")
	cmd.Flags().Bool("repeat", false, "Use the configured default recurrence")

	return cmd
}

func listProductionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listProductions",
		Short: "List all productions grouped by date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := services.ViewSchedule(app.ctx, app.store.Productions, app.logger, time.Now().UTC())
			if err != nil {
				return err
			}

			printSchedule(groups)
			return nil
		},
	}
}

func myScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mySchedule",
		Short: "List the productions you are assigned to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := services.MySchedule(
				app.ctx,
				app.session,
				app.store.Assignments,
				app.store.Productions,
				app.logger,
				time.Now().UTC(),
			)
			if err != nil {
				return err
			}

			printSchedule(groups)
			return nil
		},
	}
}

// staffingOption maps one displayed line to an operator/role pair.
type staffingOption struct {
	userID string
	name   string
	role   model.CrewRole
}

func staffProductionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "staffProduction <production_id>",
		Short: "Interactively assign crew to a production (booking officer only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productionID := args[0]

			view, err := services.BuildStaffingView(
				app.ctx,
				app.store.Productions,
				app.store.Requirements,
				app.store.Users,
				app.store.Assignments,
				app.logger,
				productionID,
				nil,
			)
			if err != nil {
				return err
			}

			scanner := bufio.NewScanner(os.Stdin)

			for {
				options := printStaffingView(view)
				fmt.Print("toggle <n>, save, or quit > ")

				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())

				switch {
				case line == "quit" || line == "exit":
					fmt.Println("Draft discarded.")
					return nil

				case line == "save":
					result, err := services.SaveAssignments(
						app.ctx,
						app.session,
						app.store.Productions,
						app.store.Assignments,
						app.notifier,
						app.logger,
						productionID,
						view.Draft,
					)
					if err != nil {
						return err
					}
					fmt.Printf("\n✓ Assignments saved: %d created, %d removed, %d kept\n\n",
						result.Created, result.Deleted, result.Kept)
					return nil

				case strings.HasPrefix(line, "toggle "):
					index, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "toggle ")))
					if err != nil || index < 1 || index > len(options) {
						fmt.Println("Pick a number from the list.")
						continue
					}
					option := options[index-1]

					if conflict := staffing.CheckConflict(app.ctx, app.store, app.logger, option.userID, productionID, view.Production.Date); conflict != nil {
						fmt.Printf("⚠ %s is already booked on %q (%s) that day. Assign anyway? [y/N] ",
							option.name, conflict.Production.Name, conflict.Production.Date.Format("2006-01-02"))
						if !scanner.Scan() {
							return scanner.Err()
						}
						answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
						if answer != "y" && answer != "yes" {
							continue
						}
					}

					view.Draft = staffing.Toggle(view.Draft, option.userID, option.role)
					view, err = services.BuildStaffingView(
						app.ctx,
						app.store.Productions,
						app.store.Requirements,
						app.store.Users,
						app.store.Assignments,
						app.logger,
						productionID,
						view.Draft,
					)
					if err != nil {
						return err
					}

				default:
					fmt.Println("Commands: toggle <n>, save, quit")
				}
			}
		},
	}
}

func confirmProductionCmd() *cobra.Command {
	return transitionCmd("confirmProduction", "Confirm a requested production", model.StatusConfirmed)
}

func startProductionCmd() *cobra.Command {
	return transitionCmd("startProduction", "Mark a confirmed production as in progress", model.StatusInProgress)
}

func completeProductionCmd() *cobra.Command {
	return transitionCmd("completeProduction", "Mark an in-progress production as completed", model.StatusCompleted)
}

func cancelProductionCmd() *cobra.Command {
	return transitionCmd("cancelProduction", "Cancel a requested or confirmed production", model.StatusCancelled)
}

func transitionCmd(use, short string, to model.ProductionStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <production_id>",
		Short: short + " (booking officer only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.TransitionProduction(
				app.ctx,
				app.session,
				app.store.Productions,
				app.store.Assignments,
				app.notifier,
				app.logger,
				args[0],
				to,
			); err != nil {
				return err
			}

			fmt.Printf("\n✓ Production is now %s\n\n", model.DisplayFor(to).Label)
			return nil
		},
	}
}

func respondAssignmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "respondAssignment <assignment_id> <accept|decline>",
		Short: "Accept or decline one of your assignments (operator only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var accept bool
			switch args[1] {
			case "accept":
				accept = true
			case "decline":
				accept = false
			default:
				return fmt.Errorf("response must be accept or decline, got %q", args[1])
			}

			if err := services.RespondAssignment(
				app.ctx,
				app.session,
				app.store.Assignments,
				app.store.Productions,
				app.notifier,
				app.logger,
				args[0],
				accept,
			); err != nil {
				return err
			}

			fmt.Printf("\n✓ Response recorded: %s\n\n", args[1])
			return nil
		},
	}
}

func listNotificationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listNotifications",
		Short: "List your notifications, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			notifications, unread, err := services.ListNotifications(app.ctx, app.session, app.store.Notifications)
			if err != nil {
				return err
			}

			fmt.Printf("\n%d notifications (%d unread)\n\n", len(notifications), unread)
			for _, notification := range notifications {
				marker := " "
				if !notification.Read {
					marker = "*"
				}
				fmt.Printf("%s %s  [%s] %s - %s (%s)\n",
					marker,
					notification.CreatedAt.Format("2006-01-02 15:04"),
					notification.Type,
					notification.Title,
					notification.Body,
					notification.ID)
			}
			fmt.Println()

			return nil
		},
	}
}

func markNotificationReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "markNotificationRead <notification_id>",
		Short: "Mark one of your notifications as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.MarkNotificationRead(app.ctx, app.store.Notifications, args[0]); err != nil {
				return err
			}
			fmt.Println("✓ Marked as read")
			return nil
		},
	}
}

func registerPushTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "registerPushToken <token>",
		Short: "Register a device push token for your account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.authClient.RegisterPushToken(app.ctx, app.store.Users, app.logger, app.session.UserID, args[0])
			fmt.Println("✓ Push token registered")
			return nil
		},
	}
}

func exportCallSheetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exportCallSheet <output_path> <production_id> [production_id...]",
		Short: "Export an HTML call sheet for one or more productions",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("title")

			if err := services.ExportCallSheet(
				app.ctx,
				app.store.Productions,
				app.store.Assignments,
				app.store.Users,
				app.logger,
				args[1:],
				title,
				args[0],
			); err != nil {
				return err
			}

			fmt.Printf("\n✓ Call sheet written to %s\n\n", args[0])
			return nil
		},
	}

	cmd.Flags().String("title", "Call Sheet", "Title printed on the call sheet")

	return cmd
}

func interactiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (authenticate once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands without re-authenticating.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\nStarting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			// Get all sibling commands (excluding interactive itself)
			rootCmd := cmd.Parent()
			commands := make(map[string]*cobra.Command)
			for _, subCmd := range rootCmd.Commands() {
				if subCmd.Name() != "interactive" && subCmd.Name() != "completion" && subCmd.Name() != "help" {
					commands[subCmd.Name()] = subCmd
				}
			}

			scanner := bufio.NewScanner(os.Stdin)

			for {
				fmt.Print("> ")

				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				parts := strings.Fields(line)
				cmdName := parts[0]
				cmdArgs := parts[1:]

				if cmdName == "exit" || cmdName == "quit" {
					fmt.Println("Goodbye!")
					return nil
				}

				if cmdName == "help" {
					printInteractiveHelp(commands)
					continue
				}

				targetCmd, exists := commands[cmdName]
				if !exists {
					fmt.Printf("Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
					continue
				}

				// Reset command flags and args
				targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
					flag.Changed = false
					flag.Value.Set(flag.DefValue)
				})

				// Execute the command's RunE directly, bypassing the full Execute() flow
				// This avoids re-running PersistentPreRunE which would call initApp() again
				if err := targetCmd.ParseFlags(cmdArgs); err != nil {
					fmt.Printf("Error parsing flags: %v\n\n", err)
					continue
				}

				cmdArgs = targetCmd.Flags().Args()

				if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
					fmt.Printf("Error: %v\n\n", err)
					continue
				}

				if targetCmd.RunE != nil {
					if err := targetCmd.RunE(targetCmd, cmdArgs); err != nil {
						fmt.Printf("Error: %v\n\n", err)
					}
				} else if targetCmd.Run != nil {
					targetCmd.Run(targetCmd, cmdArgs)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}

	return cmd
}

func printInteractiveHelp(commands map[string]*cobra.Command) {
	fmt.Println("\nAvailable commands:")

	for _, name := range sortedCommandNames(commands) {
		cmd := commands[name]
		fmt.Printf("  %-40s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Println("\n  help                                     Show this help message")
	fmt.Println("  exit, quit                               Exit the interactive session")
}

// sortedCommandNames returns the command names alphabetically so the
// interactive help prints in a stable order.
func sortedCommandNames(commands map[string]*cobra.Command) []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Display helpers

func printSchedule(groups []services.ScheduleGroup) {
	if len(groups) == 0 {
		fmt.Println("\nNo productions found.")
		return
	}

	fmt.Println()
	for _, group := range groups {
		fmt.Printf("%s\n", group.Bucket)
		for _, production := range group.Productions {
			display := model.DisplayFor(production.Status)
			fmt.Printf("  %s  %-28s %-12s %s (%s)\n",
				production.Date.Format("2006-01-02"),
				production.Name,
				display.Label,
				production.Venue,
				production.ID)
		}
		fmt.Println()
	}
}

// printStaffingView renders the role sheets and returns the numbered
// toggle options in display order.
func printStaffingView(view *services.StaffingView) []staffingOption {
	var options []staffingOption

	fmt.Printf("\n%s on %s - %s\n",
		view.Production.Name,
		view.Production.Date.Format("2006-01-02"),
		model.DisplayFor(view.Production.Status).Label)

	for _, sheet := range view.Sheets {
		fmt.Printf("\n%s (%d of %d assigned)\n", sheet.Role, sheet.ActiveCount(), sheet.Required)

		for _, entry := range sheet.Assigned {
			name := displayName(view.Names, entry.UserID)
			options = append(options, staffingOption{userID: entry.UserID, name: name, role: sheet.Role})
			state := "assigned"
			if entry.PendingRemoval {
				state = "removing"
			} else if !entry.Persisted() {
				state = "new"
			}
			fmt.Printf("  %2d. [%s] %s\n", len(options), state, name)
		}

		for _, operator := range sheet.Available {
			options = append(options, staffingOption{userID: operator.ID, name: operator.Name, role: sheet.Role})
			fmt.Printf("  %2d. [available] %s\n", len(options), operator.Name)
		}
	}
	fmt.Println()

	return options
}

func displayName(names map[string]string, userID string) string {
	if name := names[userID]; name != "" {
		return name
	}
	return userID
}

// Parsing helpers

func parseClock(date time.Time, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	clock, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("time must be HH:MM, got %q: %w", value, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC), nil
}

func parseNeed(need string) (model.CrewRole, int, error) {
	parts := strings.SplitN(need, "=", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("need must be role=count, got %q", need)
	}
	role := model.CrewRole(parts[0])
	if !role.IsValid() {
		return "", 0, fmt.Errorf("unknown crew role %q", parts[0])
	}
	count, err := strconv.Atoi(parts[1])
	if err != nil || count < 1 {
		return "", 0, fmt.Errorf("count must be a positive number, got %q", parts[1])
	}
	return role, count, nil
}
