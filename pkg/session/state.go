package session

import "github.com/shouni/gemini-nail-kit/pkg/domain"

// State は画面の状態です。Idle, Submitting, Succeeded, Failed のいずれかです。
type State interface {
	Name() string
	isState()
}

// Idle は画像を選んでいる途中の状態です。どちらの画像も未選択でありえます。
type Idle struct {
	Hand   *domain.NormalizedImage
	Design *domain.NormalizedImage
}

// Submitting は生成リクエストの応答を待っている状態です。
type Submitting struct {
	Hand   *domain.NormalizedImage
	Design *domain.NormalizedImage
}

// Succeeded は生成画像を受け取った状態です。次の操作は StartOver のみです。
type Succeeded struct {
	ImageURL string
}

// Failed はエラーを表示している状態です。選択済みの画像は保持し、そのまま再試行できます。
type Failed struct {
	Message string
	Hand    *domain.NormalizedImage
	Design  *domain.NormalizedImage
}

func (Idle) Name() string       { return "idle" }
func (Submitting) Name() string { return "submitting" }
func (Succeeded) Name() string  { return "succeeded" }
func (Failed) Name() string     { return "failed" }

func (Idle) isState()       {}
func (Submitting) isState() {}
func (Succeeded) isState()  {}
func (Failed) isState()     {}

// images は状態が保持している画像を返します。Succeeded は画像を持ちません。
func images(s State) (hand, design *domain.NormalizedImage) {
	switch st := s.(type) {
	case Idle:
		return st.Hand, st.Design
	case Submitting:
		return st.Hand, st.Design
	case Failed:
		return st.Hand, st.Design
	}
	return nil, nil
}
