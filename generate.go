package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"ai_creative_builder/config"
	"ai_creative_builder/generator"
	"ai_creative_builder/logging"
	"ai_creative_builder/presets"
	"ai_creative_builder/render"
)

type generateOptions struct {
	product    string
	tone       string
	channel    string
	context    string
	preset     string
	mode       string
	variations int
	asJSON     bool
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate creatives once and print them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(root.configPath)
			if err != nil {
				return err
			}
			if o.mode != "" {
				cfg.Mode = o.mode
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if o.variations != 0 {
				cfg.Variations = o.variations
			}
			logger := logging.New(cfg.AppEnv, root.verbose)

			table, err := presets.Load(cfg.PresetsFile)
			if err != nil {
				return err
			}
			preset, err := table.Resolve(o.preset)
			if err != nil {
				return err
			}
			tone, err := generator.ParseTone(o.tone)
			if err != nil {
				return err
			}
			channel, err := generator.ParseChannel(o.channel)
			if err != nil {
				return err
			}
			req, err := generator.NewCreativeRequest(o.product, tone, channel, o.context, preset, cfg.Variations)
			if err != nil {
				return err
			}

			agent, err := buildAgent(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			res, err := agent.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res, agent.Model(), o.asJSON)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.product, "product", "", "product name (required)")
	f.StringVar(&o.tone, "tone", string(generator.TonePlayful), "brand tone, used if the preset has no override")
	f.StringVar(&o.channel, "channel", string(generator.ChannelFacebook), "channel")
	f.StringVar(&o.context, "context", "", "anything else the model should know")
	f.StringVar(&o.preset, "preset", "", "brand preset name (default: first preset)")
	f.StringVar(&o.mode, "mode", "", "structured or freeform (overrides config.mode)")
	f.IntVar(&o.variations, "variations", 0, "number of variations in structured mode (overrides config.variations)")
	f.BoolVar(&o.asJSON, "json", false, "print the result as JSON")
	return cmd
}

func printResult(w io.Writer, res generator.Result, model string, asJSON bool) error {
	if !asJSON {
		_, err := io.WriteString(w, render.Terminal(res, model))
		return err
	}
	data, err := json.Marshal(render.NewView(res, model))
	if err != nil {
		return err
	}
	_, err = w.Write(pretty.Pretty(data))
	return err
}

func newPresetsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List brand presets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(root.configPath)
			if err != nil {
				return err
			}
			table, err := presets.Load(cfg.PresetsFile)
			if err != nil {
				return err
			}
			return printPresets(cmd.OutOrStdout(), table)
		},
	}
}

func printPresets(w io.Writer, table *presets.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTONE OVERRIDE\tDESCRIPTION")
	for _, p := range table.All() {
		override := p.ToneOverride
		if override == "" {
			override = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, override, p.Description)
	}
	return tw.Flush()
}
