package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cloudquote/internal/alicloud"
	"cloudquote/internal/config"
	"cloudquote/internal/domain"
	"cloudquote/internal/export"
	"cloudquote/internal/interpret"
	"cloudquote/internal/llm/dashscope"
	"cloudquote/internal/logging"
	"cloudquote/internal/pipeline"
	"cloudquote/internal/pricing"
	"cloudquote/internal/resolve"
	"cloudquote/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "quote: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quote",
		Short:         "Turn server requirement sheets into priced ECS quotations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newRegionsCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		format  string
		sheet   string
		region  string
		output  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "run <workbook.xlsx>",
		Short: "Quote one workbook and write the result next to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if region != "" {
				if !alicloud.ValidRegion(region) {
					return fmt.Errorf("unknown region %q", region)
				}
				cfg.AliCloud.Region = region
			}
			if workers > 0 {
				cfg.Pipeline.Workers = workers
			}

			logger, err := logging.New(cfg.Log.Level, "console")
			if err != nil {
				return err
			}
			defer logger.Sync()

			input, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open workbook: %w", err)
			}
			defer input.Close()

			llm := dashscope.NewClient(cfg.DashScope, logger.Named("dashscope"))
			ecs := alicloud.NewClient(cfg.AliCloud, logger.Named("alicloud"))

			interpreter := interpret.New(llm, interpret.NewMemoryCache(), logger.Named("interpret"))
			resolver := resolve.New(ecs, cfg.Pipeline.FailFast, logger.Named("resolve"))
			quoter := pricing.New(ecs, pricing.Options{
				ChargeType:   domain.ChargeType(cfg.Pipeline.ChargeType),
				Unit:         domain.PriceUnit(cfg.Pipeline.PriceUnit),
				Period:       cfg.Pipeline.Period,
				SystemDiskGB: cfg.Pipeline.SystemDiskGB,
			}, logger.Named("pricing"))
			runner := pipeline.NewRunner(interpreter, resolver, quoter, pipeline.Options{
				Region:   cfg.AliCloud.Region,
				Category: domain.ProductCategory(cfg.Pipeline.Category),
				Workers:  cfg.Pipeline.Workers,
			}, logger.Named("pipeline"))

			// One-shot run: no repository, no object storage.
			svc := service.NewQuotationService(runner, llm, nil, nil, cfg.AliCloud.Region, logger.Named("service"))

			outcome, err := svc.Quote(cmd.Context(), service.QuoteRequest{
				Workbook: input,
				Sheet:    sheet,
				Format:   service.SourceFormat(format),
				Region:   cfg.AliCloud.Region,
			})
			if err != nil {
				return err
			}

			if output == "" {
				output = strings.TrimSuffix(args[0], ".xlsx") + "-quotation.xlsx"
			}
			out, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer out.Close()

			if strings.HasSuffix(output, ".csv") {
				err = export.WriteCSV(out, outcome.Report)
			} else {
				err = export.WriteXLSX(out, outcome.Report)
			}
			if err != nil {
				return err
			}

			s := outcome.Report.Summary
			fmt.Printf("quoted %d records: %d succeeded, %d failed, %d skipped\n",
				s.Total, s.Succeeded, s.Failed, s.Skipped)
			fmt.Printf("total monthly: %s  average: %s\n",
				s.TotalMonthly.StringFixed(2), s.AverageMonthly.StringFixed(2))
			fmt.Printf("written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(service.FormatSpecColumn), "source format: spec_column, grid or llm")
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet name (default first sheet)")
	cmd.Flags().StringVar(&region, "region", "", "region id (default from env)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (.xlsx or .csv)")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (default from env)")
	return cmd
}

func newRegionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List regions quotations can target",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, r := range alicloud.Regions {
				fmt.Printf("%-16s %s\n", r.ID, r.Name)
			}
			return nil
		},
	}
}
