package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "officecrm",
	Short: "Quotation, invoice and payment records with GST documents",
	Long: `officecrm keeps leads, quotations, invoices, payments and project
expenses, and renders GST quotations and invoices as PDF documents.

Configuration is read from the environment (and a .env file when present).
Company letterhead details come from company.yml.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
