package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ByLCY/momreport/meeting"
	"github.com/ByLCY/momreport/notes"
)

func newMinutesCmd() *cobra.Command {
	var (
		merge bool
		force bool
	)
	cmd := &cobra.Command{
		Use:   "minutes <meeting.json>",
		Short: "根据会议笔记生成纪要草稿（不依赖 AI 服务）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFromContext(cmd.Context())
			in, err := readInput(args[0])
			if err != nil {
				return err
			}
			if in.Minutes != nil && !force {
				return fmt.Errorf("会议 %s 已有纪要，使用 --force 覆盖", in.Meeting.ID)
			}
			m := in.Meeting
			draft := notes.FallbackMinutes(m.Title, m.Description, m.Notes)
			in.Minutes = meeting.MinutesFromDraft(draft, time.Now().UTC())
			a.log.Info("已生成纪要草稿",
				zap.String("meeting_id", m.ID),
				zap.Int("decisions", len(draft.Decisions)),
				zap.Int("action_items", len(draft.ActionItems)),
				zap.Bool("sensitive", draft.IsSensitive))

			var v any = in.Minutes
			if merge {
				v = in
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		},
	}
	cmd.Flags().BoolVar(&merge, "merge", false, "输出包含纪要的完整输入，可直接交给 render")
	cmd.Flags().BoolVar(&force, "force", false, "覆盖输入中已有的纪要")
	return cmd
}
