// Package session 驱动一次模拟面试：setup → 准备倒计时 → 逐题限时作答 →
// 汇总反馈。计时、评分、媒体采集、持久化全部通过注入的协作者完成，
// 包本身不持有任何跨会话状态
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"mock_interview_backend/internal/model"
)

type Phase string

const (
	PhaseSetup      Phase = "setup"
	PhasePreparing  Phase = "preparing"
	PhaseReady      Phase = "ready"
	PhaseInProgress Phase = "in_progress"
	PhaseFinished   Phase = "finished"
	PhaseExited     Phase = "exited"
)

var (
	ErrInvalidTransition = errors.New("invalid phase transition")
	ErrEvaluating        = errors.New("evaluation in progress")
	ErrNoQuestions       = errors.New("no questions provided")
	ErrNoScorer          = errors.New("scorer is required")
)

// Scorer 对单个回答给出反馈。实现方吸收一切失败，永远返回合法的 Feedback
type Scorer interface {
	Evaluate(ctx context.Context, question, answer string) model.Feedback
}

// ResultSink 会话结束（完成或退出）时接收结果的持久化协作者
type ResultSink interface {
	SaveResult(ctx context.Context, result model.SessionResult) error
}

// Config 一次会话的全部协作者和参数。零值字段取默认：
// 30秒准备、120秒每题、10秒完成页停留、无媒体能力
type Config struct {
	Role  string
	Level string
	// Questions 本场的固定题目序列
	Questions []string

	PrepSeconds     int
	QuestionSeconds int
	// RedirectSeconds 完成页停留时长，之后触发 OnNavigate
	RedirectSeconds int

	Scorer    Scorer
	Sink      ResultSink
	Speech    SpeechRecognizer
	Camera    Camera
	Countdown Countdown

	// OnTick 每秒回调当前阶段的剩余秒数
	OnTick func(phase Phase, remaining int)
	// OnPhase 阶段变化回调
	OnPhase func(phase Phase)
	// OnFeedback 某题的反馈就绪
	OnFeedback func(questionIndex int, fb model.Feedback)
	// OnNavigate 会话终结后通知外层导航（完成时延迟 RedirectSeconds，退出时立即）
	OnNavigate func(result model.SessionResult)
}

// Session 单次面试会话。所有方法并发安全；倒计时回调和用户事件
// 交错到达，内部用一把锁串行化
type Session struct {
	mu  sync.Mutex
	cfg Config

	phase     Phase
	current   int
	remaining int
	answer    string

	answers   []model.Answer
	feedbacks []*model.Feedback

	speechOn bool
	cameraOn bool

	// epoch 在退出/销毁时递增，迟到的评分结果和导航定时器据此丢弃
	epoch     uint64
	advancing bool

	navTimer *time.Timer
	result   *model.SessionResult
}

func New(cfg Config) (*Session, error) {
	if cfg.Scorer == nil {
		return nil, ErrNoScorer
	}
	if len(cfg.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	if cfg.PrepSeconds <= 0 {
		cfg.PrepSeconds = 30
	}
	if cfg.QuestionSeconds <= 0 {
		cfg.QuestionSeconds = 120
	}
	if cfg.RedirectSeconds < 0 {
		cfg.RedirectSeconds = 0
	} else if cfg.RedirectSeconds == 0 {
		cfg.RedirectSeconds = 10
	}
	if cfg.Speech == nil {
		cfg.Speech = NoSpeech{}
	}
	if cfg.Camera == nil {
		cfg.Camera = NoCamera{}
	}
	if cfg.Countdown == nil {
		cfg.Countdown = NewTickerCountdown()
	}

	return &Session{
		cfg:       cfg,
		phase:     PhaseSetup,
		feedbacks: make([]*model.Feedback, len(cfg.Questions)),
	}, nil
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// CurrentQuestion 返回当前题目文本和下标
func (s *Session) CurrentQuestion() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseInProgress {
		return "", -1
	}
	return s.cfg.Questions[s.current], s.current
}

func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

func (s *Session) Answer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answer
}

// Result 会话终结后返回结果
func (s *Session) Result() (model.SessionResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return model.SessionResult{}, false
	}
	return *s.result, true
}

// BeginPreparation 启动30秒准备倒计时；归零自动进入 Ready
func (s *Session) BeginPreparation() error {
	s.mu.Lock()
	if s.phase != PhaseSetup {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	s.phase = PhasePreparing
	s.remaining = s.cfg.PrepSeconds
	epoch := s.epoch
	s.mu.Unlock()

	s.notifyPhase(PhasePreparing)
	s.cfg.Countdown.Start(s.cfg.PrepSeconds,
		func(remaining int) { s.onTick(epoch, PhasePreparing, remaining) },
		func() { s.onPrepExpire(epoch) },
	)
	return nil
}

// Start 从 Ready 进入第一题
func (s *Session) Start() error {
	s.mu.Lock()
	if s.phase != PhaseReady {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	s.phase = PhaseInProgress
	s.current = 0
	s.answer = ""
	s.mu.Unlock()

	s.notifyPhase(PhaseInProgress)
	s.startQuestionTimer()
	return nil
}

// SetAnswer 覆盖当前题的作答文本
func (s *Session) SetAnswer(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseInProgress {
		return
	}
	s.answer = text
}

// AppendTranscript 追加一段语音识别的最终文本
func (s *Session) AppendTranscript(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseInProgress {
		return
	}
	if s.answer == "" {
		s.answer = text
	} else {
		s.answer = s.answer + " " + text
	}
}

// EnableSpeech 开启语音捕获。环境不支持时返回 ErrMediaUnavailable，
// 调用方应禁用控件而不是中断会话
func (s *Session) EnableSpeech() error {
	s.mu.Lock()
	if s.phase != PhaseInProgress || s.speechOn {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	s.mu.Unlock()

	if !s.cfg.Speech.Available() {
		return ErrMediaUnavailable
	}
	if err := s.cfg.Speech.Start(s.AppendTranscript); err != nil {
		return err
	}

	s.mu.Lock()
	s.speechOn = true
	s.mu.Unlock()
	return nil
}

func (s *Session) DisableSpeech() {
	s.mu.Lock()
	on := s.speechOn
	s.speechOn = false
	s.mu.Unlock()
	if on {
		s.cfg.Speech.Stop()
	}
}

func (s *Session) SpeechActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speechOn
}

// EnableCamera 开启预览。失败语义同 EnableSpeech
func (s *Session) EnableCamera() error {
	s.mu.Lock()
	if s.phase != PhaseInProgress || s.cameraOn {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	s.mu.Unlock()

	if !s.cfg.Camera.Available() {
		return ErrMediaUnavailable
	}
	if err := s.cfg.Camera.Start(); err != nil {
		return err
	}

	s.mu.Lock()
	s.cameraOn = true
	s.mu.Unlock()
	return nil
}

func (s *Session) DisableCamera() {
	s.mu.Lock()
	on := s.cameraOn
	s.cameraOn = false
	s.mu.Unlock()
	if on {
		s.cfg.Camera.Stop()
	}
}

func (s *Session) CameraActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cameraOn
}

// Next 记录当前作答并前进。非空作答先送评分，评分期间再次调用返回 ErrEvaluating
func (s *Session) Next() error {
	return s.advance(false)
}

// Skip 记录一条空作答并前进，无论输入框里有什么，都不评分
func (s *Session) Skip() error {
	return s.advance(true)
}

// Exit 任意时刻放弃会话：停表、释放媒体、产出
// completed:false / exited:true / 总分0 的结果，不再发起评分
func (s *Session) Exit() error {
	s.mu.Lock()
	if s.phase == PhaseFinished || s.phaseTerminal() {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	s.epoch++
	s.phase = PhaseExited
	s.stopNavTimerLocked()
	result := s.buildResultLocked(false, true)
	s.result = &result
	s.mu.Unlock()

	s.cfg.Countdown.Stop()
	s.releaseMedia()
	s.notifyPhase(PhaseExited)

	if s.cfg.Sink != nil {
		s.cfg.Sink.SaveResult(context.Background(), result)
	}
	if s.cfg.OnNavigate != nil {
		s.cfg.OnNavigate(result)
	}
	return nil
}

// Close 销毁会话：取消计时器并释放媒体，不产出结果。
// 终结态下调用是无害的空操作
func (s *Session) Close() {
	s.mu.Lock()
	s.epoch++
	terminal := s.phaseTerminal() || s.phase == PhaseFinished
	if !terminal {
		s.phase = PhaseExited
	}
	s.stopNavTimerLocked()
	s.mu.Unlock()

	s.cfg.Countdown.Stop()
	s.releaseMedia()
}

func (s *Session) phaseTerminal() bool {
	return s.phase == PhaseExited
}

func (s *Session) startQuestionTimer() {
	s.mu.Lock()
	s.remaining = s.cfg.QuestionSeconds
	epoch := s.epoch
	s.mu.Unlock()

	s.cfg.Countdown.Start(s.cfg.QuestionSeconds,
		func(remaining int) { s.onTick(epoch, PhaseInProgress, remaining) },
		func() { s.onQuestionExpire(epoch) },
	)
}

func (s *Session) onTick(epoch uint64, phase Phase, remaining int) {
	s.mu.Lock()
	if s.epoch != epoch || s.phase != phase {
		s.mu.Unlock()
		return
	}
	s.remaining = remaining
	s.mu.Unlock()

	if s.cfg.OnTick != nil {
		s.cfg.OnTick(phase, remaining)
	}
}

func (s *Session) onPrepExpire(epoch uint64) {
	s.mu.Lock()
	if s.epoch != epoch || s.phase != PhasePreparing {
		s.mu.Unlock()
		return
	}
	s.phase = PhaseReady
	s.remaining = 0
	s.mu.Unlock()

	s.notifyPhase(PhaseReady)
}

func (s *Session) onQuestionExpire(epoch uint64) {
	s.mu.Lock()
	stale := s.epoch != epoch || s.phase != PhaseInProgress
	s.mu.Unlock()
	if stale {
		return
	}
	// 到期和显式 next 走同一条路径，最后一题到期与跳过殊途同归到 Finished
	s.advance(false)
}

func (s *Session) advance(skip bool) error {
	s.mu.Lock()
	if s.phase != PhaseInProgress {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	if s.advancing {
		s.mu.Unlock()
		return ErrEvaluating
	}
	s.advancing = true

	idx := s.current
	epoch := s.epoch
	text := strings.TrimSpace(s.answer)
	if skip {
		text = ""
	}
	elapsed := s.cfg.QuestionSeconds - s.remaining
	if elapsed < 0 {
		elapsed = 0
	}

	ans := model.Answer{
		Question:       s.cfg.Questions[idx],
		Text:           text,
		ElapsedSeconds: elapsed,
	}
	s.answers = append(s.answers, ans)
	s.mu.Unlock()

	s.cfg.Countdown.Stop()

	// 评分是唯一的IO悬挂点，放在锁外。空作答不评分，也不追加反馈
	if ans.Text != "" {
		fb := s.cfg.Scorer.Evaluate(context.Background(), ans.Question, ans.Text)

		s.mu.Lock()
		accepted := s.epoch == epoch && s.feedbacks[idx] == nil
		if accepted {
			s.feedbacks[idx] = &fb
		}
		s.mu.Unlock()

		if accepted && s.cfg.OnFeedback != nil {
			s.cfg.OnFeedback(idx, fb)
		}
	}

	s.mu.Lock()
	if s.epoch != epoch || s.phase != PhaseInProgress {
		// 评分期间会话被放弃，迟到的结果不再推动状态机
		s.mu.Unlock()
		return nil
	}
	s.advancing = false

	if idx+1 < len(s.cfg.Questions) {
		s.current = idx + 1
		s.answer = ""
		s.mu.Unlock()
		s.startQuestionTimer()
		return nil
	}

	s.finishLocked()
	result := *s.result
	s.mu.Unlock()

	s.releaseMedia()
	s.notifyPhase(PhaseFinished)

	if s.cfg.Sink != nil {
		s.cfg.Sink.SaveResult(context.Background(), result)
	}
	s.scheduleNavigate(result)
	return nil
}

// finishLocked 汇总结果并进入 Finished，调用方持锁
func (s *Session) finishLocked() {
	s.phase = PhaseFinished
	s.remaining = 0
	result := s.buildResultLocked(true, false)
	s.result = &result
}

func (s *Session) buildResultLocked(completed, exited bool) model.SessionResult {
	answers := make([]model.Answer, len(s.answers))
	copy(answers, s.answers)

	feedbacks := make([]model.Feedback, 0, len(s.feedbacks))
	for _, fb := range s.feedbacks {
		if fb != nil {
			feedbacks = append(feedbacks, *fb)
		}
	}

	avg := 0.0
	if completed && len(feedbacks) > 0 {
		sum := 0
		for _, fb := range feedbacks {
			sum += fb.Score
		}
		avg = float64(sum) / float64(len(feedbacks))
	}

	return model.SessionResult{
		Role:         s.cfg.Role,
		Level:        s.cfg.Level,
		Answers:      answers,
		Feedbacks:    feedbacks,
		AverageScore: avg,
		Suggestions:  dedupSuggestions(feedbacks),
		Completed:    completed,
		Exited:       exited,
		Timestamp:    time.Now(),
	}
}

// dedupSuggestions 跨题去重，保留首次出现的顺序
func dedupSuggestions(feedbacks []model.Feedback) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, fb := range feedbacks {
		for _, sg := range fb.Suggestions {
			if sg == "" || seen[sg] {
				continue
			}
			seen[sg] = true
			out = append(out, sg)
		}
	}
	return out
}

// scheduleNavigate 完成页停留固定时长后通知外层导航
func (s *Session) scheduleNavigate(result model.SessionResult) {
	if s.cfg.OnNavigate == nil {
		return
	}

	s.mu.Lock()
	epoch := s.epoch
	s.navTimer = time.AfterFunc(time.Duration(s.cfg.RedirectSeconds)*time.Second, func() {
		s.mu.Lock()
		stale := s.epoch != epoch
		s.mu.Unlock()
		if stale {
			return
		}
		s.cfg.OnNavigate(result)
	})
	s.mu.Unlock()
}

func (s *Session) stopNavTimerLocked() {
	if s.navTimer != nil {
		s.navTimer.Stop()
		s.navTimer = nil
	}
}

func (s *Session) releaseMedia() {
	s.DisableSpeech()
	s.DisableCamera()
}

func (s *Session) notifyPhase(phase Phase) {
	if s.cfg.OnPhase != nil {
		s.cfg.OnPhase(phase)
	}
}
