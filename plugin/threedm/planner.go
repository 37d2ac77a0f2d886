package threedm

import (
	"modsou/model"
)

// DefaultKeywordKeys 关键词参数名，按命中概率从高到低排列
var DefaultKeywordKeys = []string{
	"key",
	"keyword",
	"keywords",
	"search",
	"searchKey",
	"searchWord",
	"wd",
	"q",
	"title",
	"modsTitle",
}

var authStyles = []model.AuthStyle{model.AuthRaw, model.AuthBearer}

// Planner 生成请求尝试计划
// 计划大小 = URL数 × 2种认证 × 2种gameId × 关键词键数，与输入无关
type Planner struct {
	URLs        []string
	KeywordKeys []string
}

// NewPlanner 创建计划器，keywordKeys为空时使用默认列表
func NewPlanner(urls []string, keywordKeys []string) *Planner {
	if len(keywordKeys) == 0 {
		keywordKeys = DefaultKeywordKeys
	}
	return &Planner{
		URLs:        append([]string(nil), urls...),
		KeywordKeys: append([]string(nil), keywordKeys...),
	}
}

// Plan 按 URL → 认证方式 → 是否带gameId → 关键词键 的顺序生成尝试列表
// 同一请求总是得到同样的计划；请求没有指定游戏时不生成带gameId的组合
func (p *Planner) Plan(req model.SearchRequest) []model.AttemptSpec {
	gameIDVariants := []bool{true, false}
	if req.GameID <= 0 {
		gameIDVariants = []bool{false}
	}

	plan := make([]model.AttemptSpec, 0, len(p.URLs)*len(authStyles)*len(gameIDVariants)*len(p.KeywordKeys))
	for _, u := range p.URLs {
		for _, auth := range authStyles {
			for _, includeGameID := range gameIDVariants {
				for _, key := range p.KeywordKeys {
					plan = append(plan, model.AttemptSpec{
						Index:           len(plan) + 1,
						URL:             u,
						AuthStyle:       auth,
						IncludeGameID:   includeGameID,
						KeywordParamKey: key,
					})
				}
			}
		}
	}
	return plan
}
