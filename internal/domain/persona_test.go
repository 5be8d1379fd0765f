package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersonaIntroduction(t *testing.T) {
	p := Persona{
		Nickname:   "小雨",
		Age:        26,
		City:       "北京",
		Occupation: "设计师",
		Bio:        "喜欢摄影和旅行",
	}

	assert.Equal(t, "你好！我是小雨，26岁，来自北京。喜欢摄影和旅行", p.Introduction())
}

func TestPersonaSystemPrompt(t *testing.T) {
	p := Persona{
		Nickname:   "阿杰",
		Age:        29,
		City:       "上海",
		Occupation: "产品经理",
		Bio:        "健身达人",
		Interests:  []string{"健身", "电影"},
	}

	prompt := p.SystemPrompt()

	assert.Contains(t, prompt, "阿杰")
	assert.Contains(t, prompt, "29")
	assert.Contains(t, prompt, "上海")
	assert.Contains(t, prompt, "健身、电影")
	assert.True(t, strings.HasSuffix(prompt, "请保持角色一致性，用中文回答，回答长度控制在100字以内。"))
}
