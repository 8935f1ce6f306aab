package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"corkboard/internal/api"
	"corkboard/internal/config"
	"corkboard/internal/tui"
)

var version = "dev"

// newClient builds the backend client from the loaded configuration.
func newClient(cfg *config.Config, logger *slog.Logger) (*api.HTTPClient, error) {
	client, err := api.NewHTTPClient(api.Config{
		BaseURL: cfg.Server.URL,
		Timeout: cfg.Server.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

// resolveBoard finds the board to open by id or name. When the name does not
// match and create is set, a new board is created. An empty name opens the
// only board if exactly one exists.
func resolveBoard(ctx context.Context, client api.BoardReader, name string, create bool) (*api.Board, error) {
	boards, err := client.ListBoards(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	if name == "" {
		switch len(boards) {
		case 0:
			return nil, fmt.Errorf("no boards exist; create one with --%s --%s", FlagBoard, FlagCreate)
		case 1:
			return &boards[0], nil
		default:
			names := make([]string, len(boards))
			for i, b := range boards {
				names[i] = b.Name
			}
			return nil, fmt.Errorf("multiple boards exist, pick one with --%s: %s",
				FlagBoard, strings.Join(names, ", "))
		}
	}

	for i, b := range boards {
		if b.ID == name || strings.EqualFold(b.Name, name) {
			return &boards[i], nil
		}
	}

	if create {
		board, err := client.CreateBoard(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("create board %q: %w", name, err)
		}
		return board, nil
	}
	return nil, fmt.Errorf("board %q not found (use --%s to create it)", name, FlagCreate)
}

func main() {
	logLevel := &slog.LevelVar{}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	viper.SetEnvPrefix("CORKBOARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "corkboard",
		Short: "Terminal canvas for corkboard research boards",
		Long: `corkboard is a terminal client for the corkboard backend. It renders a
board's items as spatial nodes, lets you group them into named containers,
and answers questions scoped to the current selection.

Local edits apply immediately; backend writes happen in the background and
are never retried.`,
		SilenceUsage: true,
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().Bool(FlagVerbose, false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().String(FlagConfig, "", "Config file path (default: .corkboard/config.yaml)")
	rootCmd.PersistentFlags().String(FlagServer, "", "Backend base URL")
	rootCmd.PersistentFlags().String(FlagLogFile, "", "Log file path")

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})

	// loadConfig applies defaults, files, env, and flag overrides.
	loadConfig := func(cmd *cobra.Command) (*config.Config, error) {
		if viper.GetBool(FlagVerbose) {
			logLevel.Set(slog.LevelDebug)
		}

		cfg, err := config.LoadConfig(viper.GetViper())
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}

		if cmd.Flags().Changed(FlagServer) {
			cfg.Server.URL = viper.GetString(FlagServer)
		}
		if cmd.Flags().Changed(FlagLogFile) {
			cfg.Paths.Log = viper.GetString(FlagLogFile)
		}
		if cmd.Flags().Changed(FlagBoard) {
			cfg.Board.Name = viper.GetString(FlagBoard)
		}
		if cmd.Flags().Changed(FlagCreate) {
			cfg.Board.Create = viper.GetBool(FlagCreate)
		}
		if cmd.Flags().Changed(FlagRefreshInterval) {
			cfg.Refresh.Interval = viper.GetDuration(FlagRefreshInterval)
		}
		if cmd.Flags().Changed(FlagTopK) {
			cfg.Chat.TopK = viper.GetInt(FlagTopK)
		}

		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("corkboard %s\n", version)
		},
	}

	// Open command: the main entry, runs the board TUI.
	openCmd := &cobra.Command{
		Use:   "open [board]",
		Short: "Open a board in the terminal UI",
		Long: `Open a board in the terminal UI. The board may be given by id or by
name (case-insensitive); with a single existing board the argument can be
omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("stdout is not a terminal")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Board.Name = args[0]
			}

			client, err := newClient(cfg, logger)
			if err != nil {
				return err
			}

			board, err := resolveBoard(cmd.Context(), client, cfg.Board.Name, cfg.Board.Create)
			if err != nil {
				return err
			}

			// Redirect all logging to a file while the TUI owns the screen.
			logResult, err := SetupTUILogger(cfg.Paths.Log, logLevel, cfg.LogRotation)
			if err != nil {
				return fmt.Errorf("setup log file: %w", err)
			}
			defer func() { _ = logResult.Close() }()
			slog.SetDefault(logResult.Logger)

			logResult.Logger.Info("opening board",
				"version", version,
				"board_id", board.ID,
				"board_name", board.Name,
				"server", cfg.Server.URL,
			)

			app := tui.New(client, cfg, *board, tui.WithLogger(logResult.Logger))
			return app.Run()
		},
	}

	openCmd.Flags().String(FlagBoard, "", "Board to open, by id or name")
	openCmd.Flags().Bool(FlagCreate, false, "Create the board if it does not exist")
	openCmd.Flags().Duration(FlagRefreshInterval, 0, "Periodic item refresh interval (0 = manual only)")
	openCmd.Flags().Int(FlagTopK, 0, "Retrieval depth for chat queries")

	openCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})

	// Boards command: list boards without opening the TUI.
	boardsCmd := &cobra.Command{
		Use:   "boards",
		Short: "List boards on the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			client, err := newClient(cfg, logger)
			if err != nil {
				return err
			}

			boards, err := client.ListBoards(cmd.Context())
			if err != nil {
				return err
			}

			if viper.GetBool(FlagJSON) {
				data, err := json.MarshalIndent(boards, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal boards: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			if len(boards) == 0 {
				fmt.Println("No boards")
				return nil
			}
			for _, b := range boards {
				fmt.Printf("%s  %s\n", b.ID, b.Name)
			}
			return nil
		},
	}
	boardsCmd.Flags().Bool(FlagJSON, false, "Output boards as JSON")
	_ = viper.BindPFlag(FlagJSON, boardsCmd.Flags().Lookup(FlagJSON))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(boardsCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
