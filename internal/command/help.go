package command

import (
	"fmt"
	"strings"
)

type commandHelp struct {
	Name        string
	Summary     string
	Description string
	Example     string
}

var commandHelps = []commandHelp{
	{
		Name:        "reg",
		Summary:     "ユーザー登録",
		Description: "ユーザーの初期登録を行います",
		Example:     "@BOT_bookmaker reg",
	},
	{
		Name:        "start",
		Summary:     "賭けの開始",
		Description: "賭けを開始します\n進行中の賭けはチャンネルごとに1つのみです",
		Example:     "@BOT_bookmaker start \"VCT PACIFIC\" Gen.G PRX",
	},
	{
		Name:        "bet",
		Summary:     "賭け",
		Description: "賭けを行います\n賭けの対象となる候補を指定し、賭けるポイントは正の整数を指定してください\n参加賞として1000ptもらえます\n`@BOT_bookmaker bet 候補A ポイント数`の形式で指定できます",
		Example:     "@BOT_bookmaker bet 候補A 1000",
	},
	{
		Name:        "close",
		Summary:     "bet の締め切り",
		Description: "bet を締め切ります。\nこの時点でレートは確定し、bet は受け付けられなくなります",
		Example:     "@BOT_bookmaker close",
	},
	{
		Name:        "finish",
		Summary:     "賭けの終了",
		Description: "賭けを終了しポイントを分配します\n既に勝者が決まっている賭けではエラーになります\n丸め処理を適当にやっているため前後で総ポイント数が増減する可能性があります\n`@BOT_bookmaker finish 勝者名`の形式で指定できます",
		Example:     "@BOT_bookmaker finish 勝者名",
	},
	{
		Name:        "cancel",
		Summary:     "賭けのキャンセル",
		Description: "賭けをキャンセルします\nこのチャンネルで最新のまだ勝者が決まっていない賭けのみが有効です\nbet 済みのポイントは返却されません\n`@BOT_bookmaker cancel`の形式で指定できます",
		Example:     "@BOT_bookmaker cancel",
	},
	{
		Name:        "info",
		Summary:     "ポイント確認",
		Description: "このチャンネルに登録されているユーザーのポイント残高を表示します",
		Example:     "@BOT_bookmaker info",
	},
}

func helpMessage(h commandHelp) string {
	return fmt.Sprintf("### %s: %s\n%s\n例: `%s`", h.Name, h.Summary, h.Description, h.Example)
}

func summaryHelpMessage() string {
	var b strings.Builder
	b.WriteString("### コマンド一覧\n")
	for _, h := range commandHelps {
		fmt.Fprintf(&b, "- `%s`: %s\n", h.Name, h.Summary)
	}
	b.WriteString("`@BOT_bookmaker コマンド名 --help`で詳細を確認できます")
	return b.String()
}

func findHelp(name string) (commandHelp, bool) {
	for _, h := range commandHelps {
		if h.Name == name {
			return h, true
		}
	}
	return commandHelp{}, false
}

func isHelpArg(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "help", "--help", "-h":
		return true
	}
	return false
}
