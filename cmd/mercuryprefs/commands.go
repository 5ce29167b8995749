package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kalambet/mercuryprefs/internal/config"
	"github.com/kalambet/mercuryprefs/internal/export"
	"github.com/kalambet/mercuryprefs/internal/settings"
)

// --- show / get / set / keys ---

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every scalar setting",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		out := cmd.OutOrStdout()
		if raw {
			writeDocument(out, env.settings.Document())
			return nil
		}

		tw := newTable(out)
		for _, key := range settings.Keys() {
			v, _ := env.settings.Get(key)
			fmt.Fprintf(tw, "%s\t%s\n", colorize(colorBold, key), v)
		}
		tw.Flush()
		fmt.Fprintf(out, "\n%d buttons, %d window layouts in %s\n",
			len(env.settings.Buttons()), len(env.settings.Frames()), env.settings.Path())
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("raw", false, "print the settings document as stored")
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		v, err := env.settings.Get(args[0])
		if err != nil {
			return fmt.Errorf("%w (run 'mercuryprefs keys' for the list)", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		remote, _ := cmd.Flags().GetBool("remote")

		if remote {
			return setRemote(cmd.Context(), key, value)
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.settings.Set(key, value); err != nil {
			return err
		}
		v, _ := env.settings.Get(key)
		printSuccess("Set %s = %s", key, v)
		return nil
	},
}

func init() {
	setCmd.Flags().Bool("remote", false, "send the change to the running server instead of writing the file")
}

// setRemote writes through the server so its store stays the only writer.
func setRemote(ctx context.Context, key, value string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	resp, err := client.put(ctx, "/settings/"+url.PathEscape(key), map[string]string{"value": value})
	if err != nil {
		return err
	}
	var result struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		return err
	}
	printSuccess("Set %s = %s (via server)", result.Key, result.Value)
	return nil
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys with their defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := json.Marshal(settings.DefaultValues())
		if err != nil {
			return err
		}
		var byKey map[string]any
		if err := json.Unmarshal(defaults, &byKey); err != nil {
			return err
		}

		tw := newTable(cmd.OutOrStdout())
		fmt.Fprintf(tw, "%s\t%s\n", colorize(colorBold, "KEY"), colorize(colorBold, "DEFAULT"))
		for _, key := range settings.Keys() {
			fmt.Fprintf(tw, "%s\t%v\n", key, byKey[key])
		}
		return tw.Flush()
	},
}

// --- buttons ---

var buttonsCmd = &cobra.Command{
	Use:   "buttons",
	Short: "Manage quick-reply buttons",
}

var buttonsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List buttons in display order",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		tw := newTable(cmd.OutOrStdout())
		fmt.Fprintf(tw, "ID\tTITLE\tRESPONSE\tFLAGS\n")
		for _, b := range env.settings.Buttons() {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", b.ID, b.Title, b.ResponseText, buttonFlags(b))
		}
		return tw.Flush()
	},
}

var buttonsSetCmd = &cobra.Command{
	Use:   "set <file>",
	Short: "Replace the button list from a JSON or YAML file",
	Long: `Replace the button list from a file holding an array of
{id, title, value, isKick, isClose} records. Files ending in .yaml or .yml
are read as YAML, anything else as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		buttons, err := readButtons(args[0])
		if err != nil {
			return err
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.settings.SaveButtons(buttons); err != nil {
			return err
		}
		printSuccess("Saved %d buttons", len(buttons))
		return nil
	},
}

func init() {
	buttonsCmd.AddCommand(buttonsListCmd)
	buttonsCmd.AddCommand(buttonsSetCmd)
}

func buttonFlags(b settings.Button) string {
	var flags []string
	if b.IsKick {
		flags = append(flags, "kick")
	}
	if b.IsClose {
		flags = append(flags, "close")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

func readButtons(path string) ([]settings.Button, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading buttons file: %w", err)
	}
	var buttons []settings.Button
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &buttons)
	default:
		err = json.Unmarshal(data, &buttons)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return buttons, nil
}

// --- frames ---

var framesCmd = &cobra.Command{
	Use:   "frames",
	Short: "Inspect and change window layouts",
}

var framesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one window layout, or all saved layouts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		tw := newTable(cmd.OutOrStdout())
		fmt.Fprintf(tw, "FRAME\tX\tY\tWIDTH\tHEIGHT\n")
		if len(args) == 1 {
			l, err := env.settings.FrameSettings(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", args[0], l.Location.X, l.Location.Y, l.Size.Width, l.Size.Height)
			return tw.Flush()
		}

		frames := env.settings.Frames()
		ids := make([]string, 0, len(frames))
		for id := range frames {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			l := frames[id]
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", id, l.Location.X, l.Location.Y, l.Size.Width, l.Size.Height)
		}
		return tw.Flush()
	},
}

var framesMoveCmd = &cobra.Command{
	Use:   "move <id> <x> <y>",
	Short: "Move a window",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y, err := parsePair(args[1], args[2])
		if err != nil {
			return err
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.settings.SaveFrameLocation(args[0], settings.Point{X: x, Y: y}); err != nil {
			return err
		}
		printSuccess("Moved %s to %d,%d", args[0], x, y)
		return nil
	},
}

var framesResizeCmd = &cobra.Command{
	Use:   "resize <id> <width> <height>",
	Short: "Resize a window",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, h, err := parsePair(args[1], args[2])
		if err != nil {
			return err
		}
		if w < 0 || h < 0 {
			return fmt.Errorf("size must not be negative")
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		if floor, ok := settings.MinimumFrameSize(args[0]); ok && (w < floor.Width || h < floor.Height) {
			printWarning("%dx%d is below the minimum %dx%d for %s; the overlay will clamp it",
				w, h, floor.Width, floor.Height, args[0])
		}
		if err := env.settings.SaveFrameSize(args[0], settings.Size{Width: w, Height: h}); err != nil {
			return err
		}
		got := env.settings.Frames()[args[0]].Size
		printSuccess("Resized %s to %dx%d", args[0], got.Width, got.Height)
		return nil
	},
}

func init() {
	framesCmd.AddCommand(framesShowCmd)
	framesCmd.AddCommand(framesMoveCmd)
	framesCmd.AddCommand(framesResizeCmd)
}

func parsePair(a, b string) (int, int, error) {
	x, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", a)
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", b)
	}
	return x, y, nil
}

// --- game path ---

var gamePathCmd = &cobra.Command{
	Use:   "game-path",
	Short: "Work with the game install directory",
}

var gamePathCheckCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Check that a directory holds logs/Client.txt (default: saved game path)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dir string
		if len(args) == 1 {
			dir = args[0]
		} else {
			env, err := openEnv()
			if err != nil {
				return err
			}
			dir = env.settings.GamePath()
			env.Close()
			if dir == "" {
				return fmt.Errorf("no game path saved; pass a directory")
			}
		}

		if !settings.IsValidGamePath(dir) {
			return fmt.Errorf("%s is not a game install: %s not found", dir, settings.ClientLogPath(dir))
		}
		printSuccess("%s is a valid game path", dir)
		return nil
	},
}

func init() {
	gamePathCmd.AddCommand(gamePathCheckCmd)
}

// --- export ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the effective settings as JSON, YAML or TOML",
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		w := cmd.OutOrStdout()
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			w = f
		}

		if err := export.Encode(w, env.settings.Snapshot(), format); err != nil {
			return err
		}
		if output != "" {
			printSuccess("Settings exported to %s", output)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", "json", "output format: json, yaml or toml")
	exportCmd.Flags().String("output", "", "output file path (default: stdout)")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update mercuryprefs configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(config.ValidKeys(), ", "))
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
