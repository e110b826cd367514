package model

import (
	"encoding/json"
	"time"
)

// Answer 记录单题作答，计时结束或用户主动进入下一题时生成，之后不再修改
type Answer struct {
	Question       string `json:"question"`
	Text           string `json:"text"`
	ElapsedSeconds int    `json:"elapsedSeconds"`
}

// Feedback 评分器对单个回答的输出。线路字段名沿用外部模型约定，
// comment 序列化为 "feedback"
type Feedback struct {
	Score       int      `json:"score"`
	Comment     string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
}

// SessionResult 一次面试会话（完成或中途退出）的汇总
type SessionResult struct {
	Role         string     `json:"role"`
	Level        string     `json:"level"`
	Answers      []Answer   `json:"answers"`
	Feedbacks    []Feedback `json:"feedbacks"`
	AverageScore float64    `json:"averageScore"`
	Suggestions  []string   `json:"suggestions"`
	Completed    bool       `json:"completed"`
	Exited       bool       `json:"exited"`
	Timestamp    time.Time  `json:"timestamp"`
}

// InterviewResult SessionResult 的持久化形态
type InterviewResult struct {
	UUIDBase
	UserID       uint            `gorm:"index;not null" json:"userId"`
	Role         string          `gorm:"size:50" json:"role"`
	Level        string          `gorm:"size:50" json:"level"`
	Answers      json.RawMessage `gorm:"type:json" json:"answers"`
	Feedbacks    json.RawMessage `gorm:"type:json" json:"feedbacks"`
	Suggestions  json.RawMessage `gorm:"type:json" json:"suggestions"`
	AverageScore float64         `json:"averageScore"`
	Completed    bool            `json:"completed"`
	Exited       bool            `json:"exited"`
	Timestamp    time.Time       `json:"timestamp"`
}

func (InterviewResult) TableName() string {
	return "interview_results"
}

// ToSessionResult 还原线路形态，JSON列损坏时对应字段为空
func (r *InterviewResult) ToSessionResult() SessionResult {
	res := SessionResult{
		Role:         r.Role,
		Level:        r.Level,
		AverageScore: r.AverageScore,
		Completed:    r.Completed,
		Exited:       r.Exited,
		Timestamp:    r.Timestamp,
	}
	if len(r.Answers) > 0 {
		json.Unmarshal(r.Answers, &res.Answers)
	}
	if len(r.Feedbacks) > 0 {
		json.Unmarshal(r.Feedbacks, &res.Feedbacks)
	}
	if len(r.Suggestions) > 0 {
		json.Unmarshal(r.Suggestions, &res.Suggestions)
	}
	return res
}

// NewInterviewResult 打包线路形态，供仓储层落库
func NewInterviewResult(userID uint, res SessionResult) (*InterviewResult, error) {
	answers, err := json.Marshal(res.Answers)
	if err != nil {
		return nil, err
	}
	feedbacks, err := json.Marshal(res.Feedbacks)
	if err != nil {
		return nil, err
	}
	suggestions, err := json.Marshal(res.Suggestions)
	if err != nil {
		return nil, err
	}
	return &InterviewResult{
		UserID:       userID,
		Role:         res.Role,
		Level:        res.Level,
		Answers:      answers,
		Feedbacks:    feedbacks,
		Suggestions:  suggestions,
		AverageScore: res.AverageScore,
		Completed:    res.Completed,
		Exited:       res.Exited,
		Timestamp:    res.Timestamp,
	}, nil
}
