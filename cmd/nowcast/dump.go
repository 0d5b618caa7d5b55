package main

import (
	"encoding/json"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/xsgzmj1314/zmj-iqte-Chi-GDP-Now/internal/model"
	"github.com/xsgzmj1314/zmj-iqte-Chi-GDP-Now/internal/parser"
)

func newDumpCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "读取数据并输出 /api/gdp_forecast 的 JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd, flags)
			logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
			loader := parser.NewLoader(parser.LoaderOptions{
				ForecastPath:       cfg.ForecastPath(),
				DecompositionPath:  cfg.DecompositionPath(),
				ForecastSheet:      cfg.Data.ForecastSheet,
				DecompositionSheet: cfg.Data.DecompositionSheet,
				Logger:             logger,
			})
			ds := loader.Load()
			if ds.IsEmpty() {
				logger.Printf("未读取到任何数据: %s, %s", cfg.ForecastPath(), cfg.DecompositionPath())
			}
			return writeDump(cmd.OutOrStdout(), ds)
		},
	}
}

// writeDump 输出缩进后的图表数据；空数据同样视为成功
func writeDump(w io.Writer, ds *model.Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(model.NewGDPForecastResponse(ds))
}
