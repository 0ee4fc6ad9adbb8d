/*
Package preferences 应用层 - 界面语言偏好

独占持久桥接中的 "language" 键。
*/
package preferences

import (
	"context"
	"strings"

	"storefront/domain/shared"
	"storefront/domain/storage"
	"storefront/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Supported 支持的语言，第一个为回退值
var Supported = []language.Tag{language.English, language.Spanish}

var matcher = language.NewMatcher(Supported)

// Store 语言偏好 store
type Store struct {
	state  *shared.Observable[string]
	bridge *storage.Bridge
}

// NewStore 创建语言 store，已存储的值优先于 defaultLang
func NewStore(ctx context.Context, bridge *storage.Bridge, defaultLang string) *Store {
	initial, ok := Match(defaultLang)
	if !ok {
		initial = Supported[0].String()
	}
	if stored, found := bridge.Get(ctx, storage.KeyLanguage); found {
		if lang, ok := Match(stored); ok {
			initial = lang
		} else {
			logger.Warn("Ignoring unsupported stored language", zap.String("language", stored))
		}
	}
	return &Store{state: shared.NewObservable(initial), bridge: bridge}
}

// Match 将 BCP 47 标签解析为支持的基础语言（"es-PE" -> "es"）
func Match(tag string) (string, bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", false
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return "", false
	}
	_, idx, confidence := matcher.Match(parsed)
	if confidence == language.No {
		return "", false
	}
	base, _ := Supported[idx].Base()
	return base.String(), true
}

// Language 当前语言
func (s *Store) Language() string {
	return s.state.GetState()
}

// Set 切换语言，不支持的标签被拒绝且不持久化
func (s *Store) Set(ctx context.Context, tag string) (string, error) {
	lang, ok := Match(tag)
	if !ok {
		return s.Language(), shared.NewValidationError("preferences", "language", "unsupported language: "+tag)
	}
	return s.state.Update(func(string) string {
		s.bridge.Set(ctx, storage.KeyLanguage, lang)
		return lang
	}), nil
}

// Toggle en <-> es 互切
func (s *Store) Toggle(ctx context.Context) string {
	return s.state.Update(func(prev string) string {
		next := "es"
		if prev == "es" {
			next = "en"
		}
		s.bridge.Set(ctx, storage.KeyLanguage, next)
		return next
	})
}

// Subscribe 订阅时立即以当前语言回调一次
func (s *Store) Subscribe(listener shared.Listener[string]) func() {
	return s.state.Subscribe(listener)
}
