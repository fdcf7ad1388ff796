package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tempo/internal/errmsg"
	"github.com/llehouerou/tempo/internal/playback"
	"github.com/llehouerou/tempo/internal/source"
)

func newCatalogCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the track catalog",
	}
	cmd.AddCommand(
		newCatalogAddCmd(o),
		newCatalogUploadCmd(o),
		newCatalogImportCmd(o),
		newCatalogListCmd(o),
		newCatalogFindCmd(o),
		newCatalogRemoveCmd(o),
	)
	return cmd
}

func (o *options) openCatalog() (*source.Catalog, error) {
	p, err := o.cfg.CatalogPath()
	if err != nil {
		return nil, errmsg.Error(errmsg.OpCatalogOpen, "", err)
	}
	cat, err := source.OpenCatalog(p)
	if err != nil {
		return nil, errmsg.Error(errmsg.OpCatalogOpen, p, err)
	}
	return cat, nil
}

func newCatalogAddCmd(o *options) *cobra.Command {
	var (
		id, title, artist, cover string
		duration                 time.Duration
	)
	cmd := &cobra.Command{
		Use:   "add <location>",
		Short: "Add a track by file path or URL",
		Long: `Add a track. Local files are read for tags; flags override them.

Examples:
  tempo catalog add ~/Music/so-what.flac
  tempo catalog add https://cdn.example/t/42.mp3 --title "So What" --artist "Miles Davis"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := o.openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			loc := args[0]
			e := source.Entry{Location: loc}
			if _, statErr := os.Stat(loc); statErr == nil {
				t, err := fileTrack(loc)
				if err != nil {
					return errmsg.Error(errmsg.OpCatalogAdd, loc, err)
				}
				e.Location = t.ID
				t.ID = ""
				e.Track = t
			}
			if title != "" {
				e.Track.Title = title
			}
			if artist != "" {
				e.Track.Artist = artist
			}
			if cover != "" {
				e.Track.CoverURL = cover
			}
			if duration > 0 {
				e.Track.Duration = duration
			}
			e.Track.ID = id

			e, err = cat.Put(cmd.Context(), e)
			if err != nil {
				return errmsg.Error(errmsg.OpCatalogAdd, loc, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s  %s\n", e.Track.ID, describe(e.Track))
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "track id (default: generated)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "track title")
	cmd.Flags().StringVarP(&artist, "artist", "a", "", "artist")
	cmd.Flags().StringVar(&cover, "cover", "", "cover image URL")
	cmd.Flags().DurationVar(&duration, "duration", 0, "track length, e.g. 3m25s")
	return cmd
}

func newCatalogUploadCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <track-id> <location>",
		Short: "Attach an alternate audio file to a track",
		Long: `Attach an upload to a track. The newest upload plays when the track
has no location of its own; an upload id can also be played directly.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := o.openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			loc := args[1]
			if abs, err := filepath.Abs(loc); err == nil {
				if _, statErr := os.Stat(abs); statErr == nil {
					loc = abs
				}
			}
			up, err := cat.AddUpload(cmd.Context(), args[0], loc)
			if err != nil {
				return errmsg.Error(errmsg.OpCatalogUpload, args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Upload %s attached to %s\n", up.ID, up.TrackID)
			return nil
		},
	}
}

func newCatalogImportCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir|file> ...",
		Short: "Import audio files, reading their tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := o.openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			out := cmd.OutOrStdout()
			var imported, failed int
			for _, arg := range args {
				info, err := os.Stat(arg)
				if err != nil {
					return errmsg.Error(errmsg.OpCatalogImport, arg, err)
				}
				if !info.IsDir() {
					if _, err := cat.ImportFile(cmd.Context(), arg); err != nil {
						return errmsg.Error(errmsg.OpCatalogImport, arg, err)
					}
					imported++
					continue
				}
				res, err := cat.ImportDir(cmd.Context(), arg)
				if err != nil {
					return errmsg.Error(errmsg.OpCatalogImport, arg, err)
				}
				imported += len(res.Imported)
				failed += len(res.Failed)
				paths := make([]string, 0, len(res.Failed))
				for p := range res.Failed {
					paths = append(paths, p)
				}
				sort.Strings(paths)
				for _, p := range paths {
					fmt.Fprintf(out, "skipped %s: %v\n", p, res.Failed[p])
				}
			}
			fmt.Fprintf(out, "Imported %d tracks", imported)
			if failed > 0 {
				fmt.Fprintf(out, ", %d failed", failed)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

func newCatalogListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List catalog tracks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := o.openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			entries, err := cat.List(cmd.Context())
			if err != nil {
				return errmsg.Error(errmsg.OpCatalogList, "", err)
			}
			renderEntries(cmd.OutOrStdout(), entries, time.Now())
			return nil
		},
	}
}

func newCatalogFindCmd(o *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy search tracks by artist and title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := o.openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			entries, err := cat.Search(cmd.Context(), args[0], limit)
			if err != nil {
				return errmsg.Error(errmsg.OpCatalogSearch, args[0], err)
			}
			renderEntries(cmd.OutOrStdout(), entries, time.Now())
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum number of results (0 for all)")
	return cmd
}

func newCatalogRemoveCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id> ...",
		Aliases: []string{"rm"},
		Short:   "Remove tracks and their uploads",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := o.openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			for _, id := range args {
				if err := cat.Remove(cmd.Context(), id); err != nil {
					return errmsg.Error(errmsg.OpCatalogRemove, id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
			}
			return nil
		},
	}
}

func renderEntries(w io.Writer, entries []source.Entry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No tracks.")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Title", "Artist", "Length", "Added"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.Track.ID,
			e.Track.Title,
			e.Track.Artist,
			formatLength(e.Track.Duration),
			humanize.RelTime(e.AddedAt, now, "ago", "from now"),
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d tracks", len(entries))})
	t.Render()
}

func describe(t playback.Track) string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}

func formatLength(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
