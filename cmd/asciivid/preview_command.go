package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"asciivid/internal/ascii"
	"asciivid/internal/config"
	"asciivid/internal/services"
)

type previewView struct {
	Video     string `json:"video"`
	Samples   int    `json:"samples"`
	SkipStart int    `json:"skip_start"`
	SkipEnd   int    `json:"skip_end"`
	Effective int    `json:"effective"`
	Position  int    `json:"position"`
	Index     int    `json:"index"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Text      string `json:"text,omitempty"`
}

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var (
		position  int
		skipStart int
		skipEnd   int
		width     int
		round     bool
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "preview <video>",
		Short: "Render one sampled frame of a video as ASCII art",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := requireBinaries(cfg); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			width = intFlagOr(cmd, "width", width, cfg.Convert.Width)
			if width < config.MinWidth || width > config.MaxWidth {
				return services.Wrap(services.ErrValidation, "preview", "validate",
					fmt.Sprintf("Width must be between %d and %d", config.MinWidth, config.MaxWidth), nil)
			}
			if skipStart < 0 || skipEnd < 0 {
				return services.Wrap(services.ErrValidation, "preview", "validate", "Skip counts cannot be negative", nil)
			}

			manager := ctx.sessionManager(cfg, logger)
			defer manager.Close()
			sess, err := manager.SelectAndLoad(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			conv := ctx.converter(cfg, logger, nil)
			var (
				frame      ascii.Frame
				frameIndex = -1
			)
			sess.Window.OnChange(func(index int) {
				img, ok := sess.Frame(index)
				if !ok {
					return
				}
				frame = conv.FrameToASCII(img, width, false, round)
				frameIndex = index
			})
			sess.Window.SetSkipStart(skipStart)
			sess.Window.SetSkipEnd(skipEnd)
			sess.Window.SetPosition(position)
			sess.Window.OnChange(nil)

			view := previewView{
				Video:     sess.Path,
				Samples:   len(sess.Frames()),
				SkipStart: skipStart,
				SkipEnd:   skipEnd,
				Effective: sess.Window.Effective(),
				Position:  sess.Window.Position(),
				Index:     -1,
			}
			out := cmd.OutOrStdout()
			index, ok := sess.Window.Index()
			if !ok || index != frameIndex {
				if jsonOut {
					return writeJSON(cmd, view)
				}
				fmt.Fprintf(out, "No frames to preview: %d sampled, %d skipped at start, %d at end\n",
					view.Samples, skipStart, skipEnd)
				return nil
			}
			view.Index = index

			view.Width = frame.Width()
			view.Height = frame.Height()
			if jsonOut {
				view.Text = frame.Text()
				return writeJSON(cmd, view)
			}
			fmt.Fprintln(out, renderFrame(frame, shouldColorize(out)))
			fmt.Fprintf(out, "Frame %d/%d (sample %d of %d, %s)\n",
				view.Position+1, view.Effective, view.Index+1, view.Samples, previewMode(round))
			return nil
		},
	}

	cmd.Flags().IntVarP(&position, "frame", "f", 0, "Zero-based position within the trimmed range")
	cmd.Flags().IntVar(&skipStart, "skip-start", 0, "Sampled frames to skip at the start")
	cmd.Flags().IntVar(&skipEnd, "skip-end", 0, "Sampled frames to skip at the end")
	cmd.Flags().IntVarP(&width, "width", "w", 0, "Output width in characters (defaults to convert.width)")
	cmd.Flags().BoolVar(&round, "round", false, "Render round pixels instead of characters")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func previewMode(round bool) string {
	if round {
		return "round pixels"
	}
	return "characters"
}
