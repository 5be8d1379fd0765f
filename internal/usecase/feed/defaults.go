package feed

import "github.com/lwindle/MeetMoment/internal/domain"

// DefaultProfiles is the static fallback set served when the profile source
// fails on the first page, so the feed always renders something.
func DefaultProfiles() []domain.Profile {
	return []domain.Profile{
		{
			ID:         1,
			Nickname:   "小雨",
			Age:        26,
			City:       "北京",
			Occupation: "设计师",
			Interests:  []string{"摄影", "旅行", "咖啡"},
			Avatar:     "/placeholder.svg?height=200&width=200",
			IsOnline:   true,
			AIScore:    85,
		},
		{
			ID:         2,
			Nickname:   "阿杰",
			Age:        29,
			City:       "上海",
			Occupation: "产品经理",
			Interests:  []string{"健身", "电影", "美食"},
			Avatar:     "/placeholder.svg?height=200&width=200",
			IsOnline:   false,
			AIScore:    92,
		},
		{
			ID:         3,
			Nickname:   "AI小助手",
			Age:        25,
			City:       "深圳",
			Occupation: "智能伙伴",
			Interests:  []string{"聊天", "陪伴", "倾听"},
			Avatar:     "/placeholder.svg?height=200&width=200",
			IsOnline:   true,
			IsAI:       true,
			AIScore:    98,
		},
	}
}
