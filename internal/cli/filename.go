package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ByLCY/momreport/report"
)

func newFilenameCmd() *cobra.Command {
	var timezone string
	cmd := &cobra.Command{
		Use:   "filename <meeting.json>",
		Short: "打印报告的下载文件名",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFromContext(cmd.Context())
			in, err := readInput(args[0])
			if err != nil {
				return err
			}
			tz := timezone
			if tz == "" {
				tz = a.cfg.Timezone
			}
			loc := time.UTC
			if tz != "" {
				if loc, err = time.LoadLocation(tz); err != nil {
					return fmt.Errorf("时区无效: %w", err)
				}
			}
			m := in.Meeting
			fmt.Fprintln(cmd.OutOrStdout(), report.Filename(m.Organization.Name, m.Title, m.DateTime, time.Now(), loc))
			return nil
		},
	}
	cmd.Flags().StringVar(&timezone, "timezone", "", "文件名使用的时区")
	return cmd
}
