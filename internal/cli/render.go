package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ByLCY/momreport/meeting"
)

// requesterOpts 描述请求者身份；全部为空时视为内部调用，不做权限检查。
type requesterOpts struct {
	id    string
	email string
	role  string
}

func (o requesterOpts) requester() *meeting.Requester {
	if o.id == "" && o.email == "" && o.role == "" {
		return nil
	}
	return &meeting.Requester{ID: o.id, Email: strings.TrimSpace(o.email), Role: o.role}
}

func addRequesterFlags(cmd *cobra.Command, o *requesterOpts) {
	cmd.Flags().StringVar(&o.id, "as-user", "", "请求者用户 id")
	cmd.Flags().StringVar(&o.email, "as-email", "", "请求者邮箱")
	cmd.Flags().StringVar(&o.role, "as-role", "", "请求者角色")
}

func addOutputFlags(cmd *cobra.Command, o *outputOpts) {
	cmd.Flags().StringVarP(&o.outDir, "out", "o", "", "输出目录（指定后不使用对象存储）")
	cmd.Flags().StringVar(&o.pageSize, "page-size", "", "纸张尺寸：A4、A5 或 LETTER")
	cmd.Flags().StringVar(&o.timezone, "timezone", "", "日期显示与文件名使用的时区")
	cmd.Flags().StringVar(&o.debugDir, "debug", "", "布局调试 JSON 输出目录")
}

func newRenderCmd() *cobra.Command {
	var (
		out outputOpts
		who requesterOpts
	)
	cmd := &cobra.Command{
		Use:   "render <meeting.json>",
		Short: "生成一份会议纪要 PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := appFromContext(ctx)
			in, err := readInput(args[0])
			if err != nil {
				return err
			}
			gen, err := a.generator(ctx, out)
			if err != nil {
				return err
			}
			res, err := gen.Generate(ctx, *in, who.requester())
			if err != nil {
				return err
			}
			if out.debugDir != "" {
				if err := writeDebug(out.debugDir, res.Filename, res.Result); err != nil {
					a.log.Warn("写入调试 JSON 失败", zap.Error(err))
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Location)
			return nil
		},
	}
	addOutputFlags(cmd, &out)
	addRequesterFlags(cmd, &who)
	return cmd
}
