package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/nethmitharushika56/portfolio/internal/config"
	"github.com/nethmitharushika56/portfolio/internal/content"
	"github.com/nethmitharushika56/portfolio/internal/core"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Interactive 3D portfolio with an AI chat assistant",
	Long: `Serves the portfolio page, keeps the active section shared between the
3D scene and the content overlay, and forwards chat widget questions to
Gemini.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		if err := config.LoadConfig(); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if config.AppConfig.Debug() {
			log.Println("Service starting in DEBUG mode")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var instructionCmd = &cobra.Command{
	Use:   "instruction",
	Short: "Print the chat assistant's system instruction and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), core.BuildSystemInstruction(reg))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, instructionCmd)
}

// loadRegistry reads CONTENT_FILE when set and the embedded content
// otherwise.
func loadRegistry() (*content.Registry, error) {
	if path := config.AppConfig.ContentFile; path != "" {
		reg, err := content.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading content from %s: %w", path, err)
		}
		return reg, nil
	}
	reg, err := content.Default()
	if err != nil {
		return nil, fmt.Errorf("loading embedded content: %w", err)
	}
	return reg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
