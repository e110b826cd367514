package session

import "errors"

// ErrMediaUnavailable 宿主环境没有该能力或用户拒绝了授权。
// 调用方应当禁用对应控件，会话本身继续进行
var ErrMediaUnavailable = errors.New("media capture unavailable")

// SpeechRecognizer 把识别出的最终文本片段回送给会话。
// 宿主环境（浏览器、桌面端）注入具体实现，Stop 必须幂等
type SpeechRecognizer interface {
	Available() bool
	Start(onFinal func(text string)) error
	Stop()
}

// Camera 仅预览的摄像头句柄，画面不做任何录制或持久化
type Camera interface {
	Available() bool
	Start() error
	Stop()
}

// NoSpeech 无语音识别能力的环境
type NoSpeech struct{}

func (NoSpeech) Available() bool                    { return false }
func (NoSpeech) Start(func(text string)) error      { return ErrMediaUnavailable }
func (NoSpeech) Stop()                              {}

// NoCamera 无摄像头能力的环境
type NoCamera struct{}

func (NoCamera) Available() bool { return false }
func (NoCamera) Start() error    { return ErrMediaUnavailable }
func (NoCamera) Stop()           {}
