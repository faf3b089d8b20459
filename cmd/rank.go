package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/okian/surfcast/internal/domain/model"
	"github.com/spf13/cobra"
)

type rankFlags struct {
	skill string
	min   string
	max   string
	tide  string
	board string
	month int
}

func newRankCmd(c *cli) *cobra.Command {
	f := &rankFlags{}
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank spots once and print them as JSON",
		Long: `Ranks every registered spot for the given preferences and prints
{"spots":[...]} to stdout, best first. On failure it prints {"error":"..."}
to stderr and exits non-zero.

Example:
  surfcast rank --skill Intermediate --min 0.8 --max 2 --tide High`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := runRank(cmd, c, f); err != nil {
				writeJSONError(cmd.ErrOrStderr(), err)
				return fmt.Errorf("%w: %w", errReported, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&f.skill, "skill", "", "skill level: Beginner, Intermediate or Advanced")
	cmd.Flags().StringVar(&f.min, "min", "", "minimum comfortable wave height in meters")
	cmd.Flags().StringVar(&f.max, "max", "", "maximum comfortable wave height in meters")
	cmd.Flags().StringVar(&f.tide, "tide", "", "preferred tide: Any, High, Mid or Low")
	cmd.Flags().StringVar(&f.board, "board", "", "board: Shortboard, Longboard or Soft-top")
	cmd.Flags().IntVar(&f.month, "month", 0, "score as if in this month (1-12); defaults to now")
	return cmd
}

func (f *rankFlags) preferences() (model.Preferences, error) {
	skill, err := model.ParseSkillLevel(f.skill)
	if err != nil {
		return model.Preferences{}, err
	}
	tide, err := model.ParseTidePreference(f.tide)
	if err != nil {
		return model.Preferences{}, err
	}
	board, err := model.ParseBoardType(f.board)
	if err != nil {
		return model.Preferences{}, err
	}
	return model.Preferences{
		SkillLevel:     skill,
		MinWaveHeight:  model.ParseBound(f.min),
		MaxWaveHeight:  model.ParseBound(f.max),
		TidePreference: tide,
		BoardType:      board,
	}, nil
}

// clock returns time.Now, shifted into the requested month when one is set.
func (f *rankFlags) clock() (func() time.Time, error) {
	if f.month == 0 {
		return time.Now, nil
	}
	if f.month < 1 || f.month > 12 {
		return nil, fmt.Errorf("%w: month %d", model.ErrInvalidPreferences, f.month)
	}
	month := time.Month(f.month)
	return func() time.Time {
		t := time.Now()
		return time.Date(t.Year(), month, 1, t.Hour(), t.Minute(), t.Second(), 0, t.Location())
	}, nil
}

func runRank(cmd *cobra.Command, c *cli, f *rankFlags) error {
	prefs, err := f.preferences()
	if err != nil {
		return err
	}
	now, err := f.clock()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, cleanup, err := buildService(ctx, c.cfg, c.log, now)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := svc.Rank(ctx, prefs)
	if err != nil {
		return err
	}
	return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{"spots": res.Spots})
}

func writeJSONError(w io.Writer, err error) {
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
