package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/myquran/internal/app"
	"github.com/MrSnakeDoc/myquran/internal/bookmark"
	"github.com/MrSnakeDoc/myquran/internal/domain"
	"github.com/MrSnakeDoc/myquran/internal/utils"
)

var bookmarkChapter int

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "Manage the local bookmarks",
	Long: `Manage the bookmarks of the configured store without running the server.

Export and import use a versioned YAML file, so bookmarks can move between
the sqlite, redis and memory backends.`,
}

var bookmarksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarks in insertion order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if bookmarkChapter != 0 {
			if err := domain.ValidateChapter(bookmarkChapter); err != nil {
				return err
			}
		}
		return withStore(cmd.Context(), func(s *bookmark.Store) error {
			list := s.List(cmd.Context())
			if bookmarkChapter != 0 {
				list = s.ListByChapter(cmd.Context(), bookmarkChapter)
			}
			return printBookmarks(cmd.OutOrStdout(), list)
		})
	},
}

var bookmarksRemoveCmd = &cobra.Command{
	Use:   "remove <chapter> <verse>",
	Short: "Remove one bookmark",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ch, v, err := parseVerseArgs(args)
		if err != nil {
			return err
		}
		return withStore(cmd.Context(), func(s *bookmark.Store) error {
			if !s.Exists(cmd.Context(), ch, v) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not bookmarked\n", domain.FormatVerseKey(ch, v))
				return nil
			}
			s.Remove(cmd.Context(), ch, v)
			if s.Exists(cmd.Context(), ch, v) {
				return fmt.Errorf("failed to remove %s", domain.FormatVerseKey(ch, v))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", domain.FormatVerseKey(ch, v))
			return nil
		})
	},
}

var bookmarksClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every bookmark",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(s *bookmark.Store) error {
			n := s.Count(cmd.Context())
			s.ClearAll(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d bookmarks\n", n)
			return nil
		})
	},
}

var bookmarksExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write every bookmark to a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(s *bookmark.Store) error {
			n, err := s.ExportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d bookmarks to %s\n", n, args[0])
			return nil
		})
	},
}

var bookmarksImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge bookmarks from a YAML file",
	Long:  `Merge bookmarks from a YAML file. Verses already bookmarked keep their record.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(s *bookmark.Store) error {
			n, err := s.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d bookmarks from %s\n", n, args[0])
			return nil
		})
	},
}

func init() {
	bookmarksListCmd.Flags().IntVar(&bookmarkChapter, "chapter", 0, "only list bookmarks of this chapter")

	bookmarksCmd.AddCommand(bookmarksListCmd, bookmarksRemoveCmd, bookmarksClearCmd, bookmarksExportCmd, bookmarksImportCmd)
	rootCmd.AddCommand(bookmarksCmd)
}

// withStore opens the configured backend for the duration of fn.
func withStore(ctx context.Context, fn func(*bookmark.Store) error) error {
	cfg, log := loadConfig()
	kv, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer utils.MustClose(kv, log, kv.Name()+" store")

	return fn(bookmark.NewStore(kv, log))
}

func parseVerseArgs(args []string) (int, int, error) {
	ch, err := domain.ParseNumber("chapter", args[0])
	if err != nil {
		return 0, 0, err
	}
	v, err := domain.ParseNumber("verse", args[1])
	if err != nil {
		return 0, 0, err
	}
	return domain.ParseVerseKey(domain.FormatVerseKey(ch, v))
}

func printBookmarks(w io.Writer, list []domain.Bookmark) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "no bookmarks")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSE\tCHAPTER\tSAVED\tTRANSLATION")
	for _, b := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			b.VerseKey, b.ChapterName, b.SavedAt.Local().Format("2006-01-02 15:04"), truncate(b.TranslationText, 60))
	}
	fmt.Fprintf(tw, "\n%d bookmarks\n", len(list))
	return tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
