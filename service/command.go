package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"modsou/model"
)

// 聊天指令名称
const (
	CommandSearchName = "mod搜索"
	CommandHelpName   = "mod帮助"
)

// CommandKind 指令类型
type CommandKind int

const (
	CommandUnknown CommandKind = iota
	CommandSearch
	CommandHelp
)

// Defaults 指令未指定时使用的默认搜索参数
type Defaults struct {
	GameID      int
	PageSize    int
	Sort        model.SortPreference
	IsRecommend bool
}

// Command 解析后的聊天指令
type Command struct {
	Kind    CommandKind
	Request model.SearchRequest
}

// ParseCommand 解析聊天文本
//
//	/mod搜索 [-n 条数] [-s time|downloads|relevance] [-g 游戏ID] [-r] <关键词>
//	/mod帮助
//
// 关键词为空不在这里报错，交给搜索服务统一校验
func ParseCommand(text string, d Defaults) (Command, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return Command{Kind: CommandUnknown}, nil
	}

	name := strings.TrimPrefix(fields[0], "/")
	switch name {
	case CommandHelpName:
		return Command{Kind: CommandHelp}, nil
	case CommandSearchName:
	default:
		return Command{Kind: CommandUnknown}, nil
	}

	gameID, pageSize, sortPref, recommend := d.GameID, d.PageSize, d.Sort, d.IsRecommend
	var words []string
	args := fields[1:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-r":
			recommend = true
			continue
		case "-n", "-s", "-g":
		default:
			words = append(words, arg)
			continue
		}

		if i+1 >= len(args) {
			return Command{}, model.NewValidationError(fmt.Sprintf("参数 %s 缺少取值\n使用方法: /%s [-n 条数] [-s 排序] [-g 游戏ID] <关键词>", arg, CommandSearchName))
		}
		i++
		value := args[i]
		switch arg {
		case "-n":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return Command{}, model.NewValidationError(fmt.Sprintf("条数必须是正整数: %s", value))
			}
			pageSize = n
		case "-s":
			p, ok := model.ParseSortPreference(value)
			if !ok {
				return Command{}, model.NewValidationError(fmt.Sprintf("不支持的排序方式: %s（可选 time/downloads/relevance）", value))
			}
			sortPref = p
		case "-g":
			n, err := strconv.Atoi(value)
			if err != nil {
				return Command{}, model.NewValidationError(fmt.Sprintf("游戏ID必须是整数: %s", value))
			}
			gameID = n
		}
	}

	return Command{
		Kind:    CommandSearch,
		Request: model.NewSearchRequest(strings.Join(words, " "), gameID, pageSize, sortPref, recommend),
	}, nil
}

// HelpText 帮助信息
func HelpText(d Defaults, configured bool, attribution string) string {
	status := "× 未配置"
	if configured {
		status = "✓ 已配置"
	}
	lines := []string{
		"▌3DMGame Mod搜索插件帮助",
		"",
		"· 可用指令:",
		fmt.Sprintf("  /%s <关键词> - 搜索3dmgame站上的mod内容", CommandSearchName),
		fmt.Sprintf("  /%s - 显示此帮助信息", CommandHelpName),
		"",
		"· 可选参数:",
		"  -n <条数>  返回条数（最多" + strconv.Itoa(model.MaxPageSize) + "）",
		"  -s <排序>  time / downloads / relevance",
		"  -g <游戏ID> 指定游戏",
		"  -r         只看推荐",
		"",
		"· 使用示例:",
		fmt.Sprintf("  /%s 武器包", CommandSearchName),
		fmt.Sprintf("  /%s -n 5 -s downloads 车辆模组", CommandSearchName),
		fmt.Sprintf("  /%s 地图", CommandSearchName),
		"",
		"· 插件信息:",
		fmt.Sprintf("  当前游戏ID: %d", d.GameID),
		fmt.Sprintf("  最大结果数: %d", d.PageSize),
		fmt.Sprintf("  默认排序: %s", d.Sort.Label()),
		fmt.Sprintf("  API状态: %s", status),
		"",
		"· 说明:",
		"  结果包含标题、作者、发布/更新时间和详情链接",
		"  如果搜索结果较多会自动分段发送",
		"  如遇问题请联系管理员检查API配置",
	}
	if attribution != "" {
		lines = append(lines, "", attribution)
	}
	return strings.Join(lines, "\n")
}

// HandleCommand 处理一条聊天文本，返回要按顺序发送的分段
// 无法识别的文本返回nil
func (s *SearchService) HandleCommand(ctx context.Context, text string, d Defaults) []string {
	cmd, err := ParseCommand(text, d)
	if err != nil {
		return ErrorChunks(err)
	}

	switch cmd.Kind {
	case CommandHelp:
		configured := false
		if p, ok := s.ActivePlugin(); ok {
			configured = p.Configured()
		}
		return []string{HelpText(d, configured, s.formatter.Attribution)}
	case CommandSearch:
		return s.SearchChunks(ctx, cmd.Request)
	}
	return nil
}
