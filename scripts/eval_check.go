// 手动检查外部评分模型的连通性与输出格式
//
// 部署后或更换模型时运行一次，确认评分链路正常。返回回退反馈
// 说明上游不可达或返回了无法解析的内容，此时检查 AI_BASE_URL、
// OPENROUTER_API_KEY 和模型名。
//
// 用法: go run scripts/eval_check.go
package main

import (
	"context"
	"log"
	"os"

	"mock_interview_backend/internal/config"
	"mock_interview_backend/internal/service"
	"mock_interview_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}

	logger.InitLogger(cfg)

	aiService := service.NewAIService(cfg.AI)
	evaluation := service.NewEvaluationService(aiService)

	log.Println("发送测试问答...")
	fb := evaluation.Evaluate(context.Background(),
		"What's the difference between HTML, CSS, and JavaScript?",
		"HTML defines structure, CSS handles presentation, and JavaScript adds behavior.")

	fallback := service.FallbackFeedback()
	if fb.Score == fallback.Score && fb.Comment == fallback.Comment {
		log.Println("警告: 收到回退反馈，评分链路不可用")
		os.Exit(1)
	}

	log.Printf("评分链路正常: score=%d feedback=%q suggestions=%v", fb.Score, fb.Comment, fb.Suggestions)
}
