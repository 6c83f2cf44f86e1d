package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/dashbot/internal/api"
	"github.com/kalambet/dashbot/internal/chatbot"
	"github.com/kalambet/dashbot/internal/config"
	"github.com/kalambet/dashbot/internal/metrics"
	"github.com/kalambet/dashbot/internal/storage"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the dashbot server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		withMCP, _ := cmd.Flags().GetBool("mcp")
		return runServer(withMCP)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running dashbot server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show dashbot status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context())
	},
}

func init() {
	startCmd.Flags().Bool("mcp", false, "also serve MCP over stdio")
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "dashbot.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

func logLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func runServer(withMCP bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.Log.Level)})))
	slog.Info(versionString())

	healthClient := &http.Client{Timeout: 2 * time.Second}
	pidPath := pidFilePath(cfg.Storage.DataDir)
	if resp, err := healthClient.Get(cfg.BaseURL() + "/health"); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("dashbot is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("dashbot is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("closing storage", "error", err)
		}
	}()

	table, err := chatbot.TableFromConfig(cfg.Chatbot.AnswersFile)
	if err != nil {
		return err
	}
	slog.Info("answer table loaded", "answers", table.Len(), "file", cfg.Chatbot.AnswersFile)

	resolver := chatbot.NewResolver(store,
		chatbot.NewMatcher(table, cfg.Chatbot.Threshold),
		chatbot.WithRecorder(metrics.Recorder{}),
	)

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: api.NewRouter(api.RouterDeps{
			Chat: api.ChatDeps{Resolver: resolver, Store: store, Secret: cfg.Auth.JWTSecret},
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("dashbot listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if withMCP || cfg.MCP.Enabled {
		mcpSrv := api.NewMCPServer(api.MCPDeps{
			Resolver: resolver,
			Store:    store,
			OwnerID:  cfg.MCP.OwnerID,
			Version:  version,
		})
		stdioSrv := server.NewStdioServer(mcpSrv)
		g.Go(func() error {
			slog.Info("MCP server started (stdio transport)", "owner", cfg.MCP.OwnerID)
			if err := stdioSrv.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("MCP stdio server error", "error", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		printError("could not load config: %v", err)
		return err
	}

	pidPath := pidFilePath(cfg.Storage.DataDir)
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("dashbot is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop dashbot (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to dashbot (PID %d)", pid)
	return nil
}

func showStatus(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	client := &http.Client{Timeout: 2 * time.Second}
	running := false
	resp, err := client.Get(cfg.BaseURL() + "/health")
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			running = true
			printStatus("Server", "running at %s", cfg.BaseURL())
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	answers := "built-in"
	if cfg.Chatbot.AnswersFile != "" {
		answers = cfg.Chatbot.AnswersFile
	}
	printStatus("Answers", "%s", answers)
	printStatus("Threshold", "%.2f", cfg.Chatbot.Threshold)
	printStatus("MCP", "%t (owner %s)", cfg.MCP.Enabled, cfg.MCP.OwnerID)

	if running && cfg.Client.Token != "" {
		c := &apiClient{baseURL: cfg.BaseURL(), token: cfg.Client.Token, httpClient: client}
		if n, err := countConversations(ctx, c); err == nil {
			printStatus("Conversations", "%s", countLabel(n, maxStatusCount))
		} else {
			printStatus("Conversations", "unavailable (%v)", err)
		}
	}

	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}

const maxStatusCount = 100

func countConversations(ctx context.Context, c *apiClient) (int, error) {
	resp, err := c.get(ctx, fmt.Sprintf("%s/conversations?limit=%d", chatbotPath, maxStatusCount))
	if err != nil {
		return 0, err
	}
	var list api.ConversationList
	if err := decodeJSON(resp, &list); err != nil {
		return 0, err
	}
	return list.Count, nil
}

func countLabel(count, limit int) string {
	if count >= limit {
		return fmt.Sprintf("%d+", count)
	}
	return fmt.Sprintf("%d", count)
}
