package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/input-output-hk/catalyst-forge-libs/usd"
)

func newPutCmd(newVolume volumeFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "put <local-file> <path>",
		Short: "Copy a local file onto the volume",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			vol, err := newVolume(cmd)
			if err != nil {
				return err
			}

			f, err := vol.Create(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			n, err := f.Write(data)
			if err != nil {
				return err
			}
			if err := finish(f); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %d bytes to %s\n", color.GreenString("Wrote"), n, f.Path())
			return nil
		},
	}
}

func newGetCmd(newVolume volumeFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path> <local-file>",
		Short: "Copy a file from the volume to a local file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readVolumeFile(cmd, newVolume, args[0])
			if err != nil {
				return err
			}

			if err := os.WriteFile(args[1], data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[1], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %d bytes to %s\n", color.GreenString("Read"), len(data), args[1])
			return nil
		},
	}
}

func newCatCmd(newVolume volumeFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path>",
		Short: "Print a file from the volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readVolumeFile(cmd, newVolume, args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newWriteCmd(newVolume volumeFunc) *cobra.Command {
	var formatted bool

	cmd := &cobra.Command{
		Use:   "write <path> <text>...",
		Short: "Create a file on the volume holding the given text",
		Long: `Create a file on the volume holding the given text.

With --formatted the text goes through the formatted write, so format verbs
are interpreted: "100%%" is stored as "100%".`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vol, err := newVolume(cmd)
			if err != nil {
				return err
			}

			f, err := vol.Create(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			text := strings.Join(args[1:], " ")
			var rc int
			if formatted {
				rc, err = f.WriteFormatted(text)
			} else {
				rc, err = f.WriteStr(text)
			}
			if err != nil {
				return err
			}

			closeRC, err := f.Finish()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s write=%s close=%s\n", f.Path(), status(rc), status(closeRC))
			return nil
		},
	}

	cmd.Flags().BoolVar(&formatted, "formatted", false, "Interpret format verbs in the text")
	return cmd
}

func readVolumeFile(cmd *cobra.Command, newVolume volumeFunc, path string) ([]byte, error) {
	vol, err := newVolume(cmd)
	if err != nil {
		return nil, err
	}

	f, err := vol.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.ReadFile()
}

// finish releases f and turns a failing native close status into an error.
func finish(f *usd.File) error {
	rc, err := f.Finish()
	if err != nil {
		return err
	}
	if rc != 0 {
		return fmt.Errorf("closing %s failed with status %d", f.Path(), rc)
	}
	return nil
}

func status(rc int) string {
	if rc < 0 {
		return color.RedString("%d", rc)
	}
	return color.GreenString("%d", rc)
}
