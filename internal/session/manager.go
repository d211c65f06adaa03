package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/inventory-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
)

type ctxKey struct{}

// Session — состояние сессии текущего запроса.
type Session struct {
	id   string
	data Data
}

// Identity возвращает пользователя сессии, если вход выполнен.
func (s *Session) Identity() (Identity, bool) {
	if s == nil || s.data.Identity == nil {
		return Identity{}, false
	}
	return *s.data.Identity, true
}

// Options параметры cookie сессии.
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager выдаёт, читает и удаляет сессии.
type Manager struct {
	store Store
	maker jwt.Maker
	opts  Options
	log   *slog.Logger
}

// NewManager создаёт Manager.
func NewManager(store Store, maker jwt.Maker, opts Options, log *slog.Logger) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "inventory_session"
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	return &Manager{
		store: store,
		maker: maker,
		opts:  opts,
		log:   log,
	}
}

// Middleware загружает сессию по cookie и кладёт её в контекст запроса.
// Неверная подпись, истёкший токен или отсутствующая запись дают пустую сессию.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := m.load(r)
		ctx := context.WithValue(r.Context(), ctxKey{}, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Manager) load(r *http.Request) *Session {
	const op = "session.Manager.load"
	cookie, err := r.Cookie(m.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return &Session{}
	}
	log := m.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	claims, err := m.maker.ParseToken(cookie.Value)
	if err != nil {
		log.Debug("rejected session cookie", sl.Err(err))
		return &Session{}
	}
	data, err := m.store.Get(r.Context(), claims.SessionID())
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Error("failed to load session", sl.Err(err))
		}
		return &Session{}
	}
	return &Session{id: claims.SessionID(), data: *data}
}

// FromContext возвращает сессию запроса. Без Middleware возвращается пустая сессия.
func FromContext(ctx context.Context) *Session {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	if !ok || s == nil {
		return &Session{}
	}
	return s
}

// IdentityFromContext возвращает пользователя текущей сессии.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	return FromContext(ctx).Identity()
}

// WithIdentity возвращает контекст с сессией, в которой выполнен вход.
// Используется в тестах обработчиков.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, &Session{data: Data{Identity: &identity}})
}

// Login привязывает пользователя к новой сессии. Старый идентификатор
// удаляется, flash-сообщения переносятся.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, identity Identity) error {
	const op = "session.Manager.Login"
	s := FromContext(r.Context())
	if s.id != "" {
		if err := m.store.Delete(r.Context(), s.id); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	s.id = uuid.NewString()
	s.data.Identity = &identity
	if err := m.persist(w, r, s); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Logout удаляет сессию и cookie. Повторный вызов безопасен.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	const op = "session.Manager.Logout"
	s := FromContext(r.Context())
	id := s.id
	*s = Session{}
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	if id == "" {
		return nil
	}
	if err := m.store.Delete(r.Context(), id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AddFlash добавляет сообщение для следующей отображаемой страницы.
// Для анонимного посетителя создаётся сессия без пользователя.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	const op = "session.Manager.AddFlash"
	s := FromContext(r.Context())
	if s.id == "" {
		s.id = uuid.NewString()
	}
	s.data.Flashes = append(s.data.Flashes, Flash{Kind: kind, Message: message})
	if err := m.persist(w, r, s); err != nil {
		m.log.Warn("failed to save flash", slog.String("op", op), sl.Err(err))
	}
}

// PopFlashes возвращает накопленные сообщения и удаляет их из сессии.
func (m *Manager) PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	const op = "session.Manager.PopFlashes"
	s := FromContext(r.Context())
	if len(s.data.Flashes) == 0 {
		return nil
	}
	flashes := s.data.Flashes
	s.data.Flashes = nil
	if err := m.persist(w, r, s); err != nil {
		m.log.Warn("failed to clear flashes", slog.String("op", op), sl.Err(err))
	}
	return flashes
}

func (m *Manager) persist(w http.ResponseWriter, r *http.Request, s *Session) error {
	if err := m.store.Save(r.Context(), s.id, &s.data, m.opts.TTL); err != nil {
		return err
	}
	token, err := m.maker.GenerateToken(s.id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
