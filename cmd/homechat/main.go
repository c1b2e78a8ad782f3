// File: cmd/homechat/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/homellm/homechat/internal/client"
	"github.com/homellm/homechat/internal/tui"
)

const version = "1.0.0"

var serverURL string

func newAPI() *client.API {
	return client.NewAPI(strings.TrimRight(serverURL, "/"))
}

func parseChatID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid chat id %q", arg)
	}
	return uint(id), nil
}

func main() {
	root := &cobra.Command{
		Use:     "homechat",
		Short:   "Terminal client for the homechat server",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(tui.New(newAPI()), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "homechat server URL")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List chats, most recently touched first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			chats, err := newAPI().ListChats(ctx)
			if err != nil {
				return err
			}
			if len(chats) == 0 {
				fmt.Println("no chats")
				return nil
			}
			for _, c := range chats {
				fmt.Printf("%4d  %-40s  %3d messages  %s\n",
					c.ID, c.Title, c.MessageCount, c.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <chat-id>",
		Short: "Delete a chat and its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseChatID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := newAPI().DeleteChat(ctx, id); err != nil {
				return err
			}
			fmt.Printf("deleted chat %d\n", id)
			return nil
		},
	}

	renameCmd := &cobra.Command{
		Use:   "rename <chat-id> <title>",
		Short: "Rename a chat",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseChatID(args[0])
			if err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			chat, err := newAPI().RenameChat(ctx, id, title)
			if err != nil {
				return err
			}
			fmt.Printf("renamed chat %d to %q\n", chat.ID, chat.Title)
			return nil
		},
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List models known to the inference backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			catalog, err := newAPI().Models(ctx)
			if err != nil {
				return err
			}
			for _, m := range catalog.Models {
				marker := " "
				if m == catalog.DefaultModel {
					marker = "*"
				}
				if desc := catalog.Descriptions[m]; desc != "" {
					fmt.Printf("%s %-20s %s\n", marker, m, desc)
				} else {
					fmt.Printf("%s %s\n", marker, m)
				}
			}
			return nil
		},
	}

	root.AddCommand(listCmd, deleteCmd, renameCmd, modelsCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
