package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smallbiznis/officecrm/internal/config"
	docdomain "github.com/smallbiznis/officecrm/internal/document/domain"
	"github.com/smallbiznis/officecrm/internal/document/images"
	"github.com/smallbiznis/officecrm/internal/document/render"
	docservice "github.com/smallbiznis/officecrm/internal/document/service"
	"github.com/smallbiznis/officecrm/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var renderCmd = &cobra.Command{
	Use:   "render quotation|invoice",
	Short: "Render a quotation or invoice PDF from a JSON file",
	Long: `Render a document offline from a JSON payload. The payload is either the
body accepted by POST /api/generate-pdf or just its "data" object. No record
store or numbering authority is involved; the number in the payload is used
as is and the PDF is written to <out>/<number>.pdf.`,
	Example: `  officecrm render quotation --input quote.json --out ./pdf
  officecrm render invoice --input inv.json --no-images`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(docdomain.KindQuotation), string(docdomain.KindInvoice)},
	RunE:      runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("input", "i", "", "JSON payload to render")
	renderCmd.Flags().StringP("out", "o", ".", "Output directory")
	renderCmd.Flags().Bool("no-images", false, "Skip fetching the logo and item images")
	renderCmd.Flags().Duration("timeout", 30*time.Second, "Render timeout")
	_ = renderCmd.MarkFlagRequired("input")
}

func runRender(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	outDir, _ := cmd.Flags().GetString("out")
	noImages, _ := cmd.Flags().GetBool("no-images")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg := config.Load()
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	company, err := config.LoadCompany()
	if err != nil {
		return fmt.Errorf("load company: %w", err)
	}

	p := docservice.Params{
		Company:  company,
		Renderer: render.New(company),
		Log:      log,
	}
	if !noImages {
		p.Images = images.New(images.Params{Config: cfg, Log: log})
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	path, err := renderFile(ctx, docservice.New(p), args[0], input, outDir)
	if err != nil {
		return err
	}
	log.Info("document written", zap.String("path", path))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// renderFile renders the payload at input as kind and writes it to outDir.
func renderFile(ctx context.Context, docs docdomain.Service, kind, input, outDir string) (string, error) {
	raw, err := os.ReadFile(input)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}

	req, err := decodeRenderPayload(raw)
	if err != nil {
		return "", err
	}
	req.Type = kind

	k, header, err := req.Parse()
	if err != nil {
		return "", err
	}
	doc, err := docdomain.Build(ctx, docs, k, header, req.Data.Customer, req.Data.Items)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, filepath.Base(doc.Filename))
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// decodeRenderPayload accepts the API request body or its bare data object.
func decodeRenderPayload(raw []byte) (docdomain.Request, error) {
	var envelope struct {
		Type string           `json:"type"`
		Data *json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return docdomain.Request{}, fmt.Errorf("decode input: %w", err)
	}

	body := raw
	if envelope.Data != nil {
		body = *envelope.Data
	}
	var data docdomain.RequestData
	if err := json.Unmarshal(body, &data); err != nil {
		return docdomain.Request{}, fmt.Errorf("decode input: %w", err)
	}
	return docdomain.Request{Type: envelope.Type, Data: data}, nil
}
