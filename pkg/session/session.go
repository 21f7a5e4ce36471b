package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/shouni/gemini-nail-kit/pkg/domain"
)

// MissingImagesMessage は画像が揃っていないまま生成を始めようとしたときの文言です。
const MissingImagesMessage = "please upload both photos before starting."

var (
	// ErrInFlight は生成リクエストの応答待ち中に操作しようとしたことを示します。
	ErrInFlight = errors.New("a generation request is already in progress")
	// ErrShowingResult は結果表示中に StartOver 以外の操作をしようとしたことを示します。
	ErrShowingResult = errors.New("a result is being shown; start over first")
)

// Generator は正規化済みの画像2枚から生成画像の URL を得ます。adapters.Client が満たします。
type Generator interface {
	GenerateNailDesign(ctx context.Context, hand, design *domain.NormalizedImage) (string, error)
}

// Option は Session の設定を変更します。
type Option func(*Session)

// WithObserver は状態が変わるたびに呼ばれる関数を登録します。ロックの外で呼ばれます。
func WithObserver(fn func(State)) Option {
	return func(s *Session) {
		s.observer = fn
	}
}

// Session は1人の利用者の操作状態を保持し、同時に1件だけ生成を実行させます。
type Session struct {
	mu       sync.Mutex
	state    State
	observer func(State)
}

// New は Idle 状態の Session を作ります。
func New(opts ...Option) *Session {
	s := &Session{state: Idle{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State は現在の状態を返します。
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetHand は手の写真を設定します。エラー表示中であればエラーは閉じられます。
func (s *Session) SetHand(img *domain.NormalizedImage) error {
	return s.edit(func(_, design *domain.NormalizedImage) State {
		return Idle{Hand: img, Design: design}
	})
}

// SetDesign はネイルデザインの画像を設定します。
func (s *Session) SetDesign(img *domain.NormalizedImage) error {
	return s.edit(func(hand, _ *domain.NormalizedImage) State {
		return Idle{Hand: hand, Design: img}
	})
}

// RemoveHand は手の写真の選択を取り消します。
func (s *Session) RemoveHand() error {
	return s.SetHand(nil)
}

// RemoveDesign はデザイン画像の選択を取り消します。
func (s *Session) RemoveDesign() error {
	return s.SetDesign(nil)
}

// LoadFailed は画像の読み込みに失敗したことを表示します。選択済みの画像はそのまま残ります。
func (s *Session) LoadFailed(message string) error {
	return s.edit(func(hand, design *domain.NormalizedImage) State {
		return Failed{Message: message, Hand: hand, Design: design}
	})
}

// Generate は画像が揃っていれば Submitting に移り、gen の結果に応じて Succeeded か Failed に移ります。
// 応答待ちの間は他の操作を受け付けません。自動での再試行は行いません。
func (s *Session) Generate(ctx context.Context, gen Generator) (string, error) {
	s.mu.Lock()
	switch s.state.(type) {
	case Submitting:
		s.mu.Unlock()
		return "", ErrInFlight
	case Succeeded:
		s.mu.Unlock()
		return "", ErrShowingResult
	}

	hand, design := images(s.state)
	if hand == nil || design == nil {
		err := domain.NewError(domain.KindValidation, "session.Generate", MissingImagesMessage)
		s.transitionLocked(Failed{Message: err.Message, Hand: hand, Design: design})
		return "", err
	}
	s.transitionLocked(Submitting{Hand: hand, Design: design})

	url, err := gen.GenerateNailDesign(ctx, hand, design)

	s.mu.Lock()
	if err != nil {
		s.transitionLocked(Failed{Message: err.Error(), Hand: hand, Design: design})
		return "", err
	}
	s.transitionLocked(Succeeded{ImageURL: url})
	return url, nil
}

// StartOver はすべての状態を破棄して最初の Idle に戻ります。
func (s *Session) StartOver() error {
	s.mu.Lock()
	if _, ok := s.state.(Submitting); ok {
		s.mu.Unlock()
		return ErrInFlight
	}
	s.transitionLocked(Idle{})
	return nil
}

// edit は画像を編集できる状態（Idle / Failed）でのみ next を適用します。
func (s *Session) edit(next func(hand, design *domain.NormalizedImage) State) error {
	s.mu.Lock()
	switch s.state.(type) {
	case Submitting:
		s.mu.Unlock()
		return ErrInFlight
	case Succeeded:
		s.mu.Unlock()
		return ErrShowingResult
	}
	s.transitionLocked(next(images(s.state)))
	return nil
}

// transitionLocked は s.mu を保持した状態で呼び出し、状態を更新してからロックを解放します。
func (s *Session) transitionLocked(next State) {
	prev := s.state
	s.state = next
	observer := s.observer
	s.mu.Unlock()

	slog.Debug("セッションの状態が変わりました", "from", prev.Name(), "to", next.Name())
	if observer != nil {
		observer(next)
	}
}
