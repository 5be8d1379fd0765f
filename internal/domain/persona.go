package domain

import "fmt"

// Persona is a conversational identity a chat session can be bound to.
// Exactly one persona is active per session at any time.
type Persona struct {
	ID         uint     `json:"id" db:"id"`
	Nickname   string   `json:"nickname" db:"nickname"`
	Age        int      `json:"age" db:"age"`
	City       string   `json:"city" db:"city"`
	Occupation string   `json:"occupation" db:"occupation"`
	Bio        string   `json:"bio" db:"bio"`
	Interests  []string `json:"interests"`
	Avatar     string   `json:"avatar" db:"avatar"`
	AIScore    int      `json:"ai_score" db:"ai_score"`
	AIBacked   bool     `json:"is_ai" db:"is_ai"`
}

// Introduction is the synthetic message appended when the persona becomes
// active, so the user sees continuity across a switch.
func (p Persona) Introduction() string {
	return fmt.Sprintf("你好！我是%s，%d岁，来自%s。%s", p.Nickname, p.Age, p.City, p.Bio)
}

// SystemPrompt renders the persona's descriptive attributes into the system
// prompt handed to the conversational inference backend.
func (p Persona) SystemPrompt() string {
	prompt := fmt.Sprintf(`你是%s，一位%d岁、来自%s的%s，正在交友应用中与用户聊天。
个人简介：%s
请始终保持这个角色，用自然、亲切的语气回应用户。`,
		p.Nickname, p.Age, p.City, p.Occupation, p.Bio)
	if len(p.Interests) > 0 {
		prompt += "\n你的兴趣爱好："
		for i, tag := range p.Interests {
			if i > 0 {
				prompt += "、"
			}
			prompt += tag
		}
	}
	prompt += "\n\n请保持角色一致性，用中文回答，回答长度控制在100字以内。"
	return prompt
}
