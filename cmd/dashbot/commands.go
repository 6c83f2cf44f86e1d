package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kalambet/dashbot/internal/api"
	"github.com/kalambet/dashbot/internal/chatbot"
	"github.com/kalambet/dashbot/internal/config"
	"github.com/kalambet/dashbot/internal/storage"
)

const chatbotPath = "/api/chatbot"

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send a message to the assistant",
	Long: `Send a message to the assistant and print its reply.

Examples:
  dashbot ask "how do I add a widget"
  dashbot ask --conversation 3f2c... "thanks"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		convID, _ := cmd.Flags().GetString("conversation")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		return runAsk(cmd.Context(), client, os.Stdout, strings.Join(args, " "), convID)
	},
}

func init() {
	askCmd.Flags().StringP("conversation", "c", "", "continue an existing conversation")
}

func runAsk(ctx context.Context, c *apiClient, w io.Writer, message, convID string) error {
	resp, err := c.post(ctx, chatbotPath+"/chat", api.ChatRequest{
		Message:        message,
		ConversationID: convID,
	})
	if err != nil {
		return err
	}

	var result api.ChatResponse
	if err := decodeJSON(resp, &result); err != nil {
		return err
	}

	printTurn(w, "assistant", result.Response)
	if convID == "" {
		fmt.Fprintf(w, "%s\n", colorize(colorDim, "conversation "+result.Conversation.ID))
	}
	return nil
}

// --- conversations ---

var conversationsCmd = &cobra.Command{
	Use:     "conversations",
	Aliases: []string{"conv"},
	Short:   "Manage stored conversations",
}

var conversationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations, most recently updated first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		return runConversationsList(cmd.Context(), client, os.Stdout, limit)
	},
}

var conversationsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show every message of a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		return runConversationsShow(cmd.Context(), client, os.Stdout, args[0], asJSON)
	},
}

var conversationsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := runConversationsDelete(cmd.Context(), client, args[0]); err != nil {
			return err
		}
		printSuccess("Deleted conversation %s", args[0])
		return nil
	},
}

func init() {
	conversationsListCmd.Flags().Int("limit", 20, "maximum number of conversations to list")
	conversationsShowCmd.Flags().Bool("json", false, "print the raw conversation JSON")
	conversationsCmd.AddCommand(conversationsListCmd)
	conversationsCmd.AddCommand(conversationsShowCmd)
	conversationsCmd.AddCommand(conversationsDeleteCmd)
}

func runConversationsList(ctx context.Context, c *apiClient, w io.Writer, limit int) error {
	resp, err := c.get(ctx, fmt.Sprintf("%s/conversations?limit=%d", chatbotPath, limit))
	if err != nil {
		return err
	}

	var list api.ConversationList
	if err := decodeJSON(resp, &list); err != nil {
		return err
	}

	if list.Count == 0 {
		fmt.Fprintln(w, "No conversations found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, conv := range list.Conversations {
		fmt.Fprintf(tw, "%s\t%s\t%d msgs\t%s\n",
			colorize(colorCyan, shortID(conv.ID)),
			conv.UpdatedAt.Local().Format("2006-01-02 15:04"),
			len(conv.Messages),
			shorten(conv.Title, 40),
		)
	}
	return tw.Flush()
}

func runConversationsShow(ctx context.Context, c *apiClient, w io.Writer, id string, asJSON bool) error {
	resp, err := c.get(ctx, chatbotPath+"/conversations/"+url.PathEscape(id))
	if err != nil {
		return err
	}

	var body struct {
		Conversation storage.Conversation `json:"conversation"`
	}
	if err := decodeJSON(resp, &body); err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(body.Conversation)
	}

	conv := body.Conversation
	fmt.Fprintf(w, "%s  %s\n", colorize(colorBold, conv.Title), colorize(colorDim, conv.ID))
	for _, m := range conv.Messages {
		printTurn(w, string(m.Role), m.Content)
	}
	return nil
}

func runConversationsDelete(ctx context.Context, c *apiClient, id string) error {
	resp, err := c.delete(ctx, chatbotPath+"/conversations/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	var result map[string]string
	return decodeJSON(resp, &result)
}

// --- answers ---

var answersCmd = &cobra.Command{
	Use:   "answers",
	Short: "List the answer table or show how a message resolves",
	Long: `List the configured answer table, or with --match show which answer a
message resolves to. Runs locally; no server is needed.

Examples:
  dashbot answers
  dashbot answers --match "how do I create a dashboard"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("match")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		table, err := chatbot.TableFromConfig(cfg.Chatbot.AnswersFile)
		if err != nil {
			return err
		}
		matcher := chatbot.NewMatcher(table, cfg.Chatbot.Threshold)

		if text != "" {
			return runAnswersMatch(os.Stdout, matcher, text)
		}
		return runAnswersList(os.Stdout, table)
	},
}

func init() {
	answersCmd.Flags().String("match", "", "resolve this message against the table")
}

func runAnswersList(w io.Writer, table *chatbot.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, a := range table.Entries() {
		fmt.Fprintf(tw, "%2d\t%s\t%s\n", i+1, colorize(colorBold, a.Key), shorten(a.Reply, 60))
	}
	return tw.Flush()
}

func runAnswersMatch(w io.Writer, matcher *chatbot.Matcher, text string) error {
	m := matcher.Resolve(text)
	printStatusTo(w, "Match", "%s", m.Kind)
	if m.Key != "" {
		printStatusTo(w, "Key", "%s", m.Key)
		printStatusTo(w, "Score", "%.2f", m.Score)
	}
	printStatusTo(w, "Reply", "%s", m.Reply)
	return nil
}

func printStatusTo(w io.Writer, label string, format string, args ...any) {
	fmt.Fprintf(w, "  %s %s\n", colorize(colorBold, label+":"), fmt.Sprintf(format, args...))
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s %s\n", colorize(colorBold, k.Key), k.Value, colorize(colorDim, "("+k.EnvVar+")"))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value. Valid keys: " + strings.Join(config.ValidKeys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

var configSetSecretCmd = &cobra.Command{
	Use:   "set-secret <key> <value>",
	Short: "Store a secret in the secrets file",
	Long:  "Store a secret in the secrets file. Valid keys: " + strings.Join(config.SecretKeys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetSecret(args[0], args[1]); err != nil {
			return err
		}
		printSuccess("Stored %s", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetSecretCmd)
}
