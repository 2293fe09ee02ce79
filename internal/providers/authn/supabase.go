package authn

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	gotrue "github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"

	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/utils"
)

// Supabase talks to the GoTrue API of a Supabase project.
type Supabase struct {
	authURL string
	client  gotrue.Client
	http    http.Client
}

func NewSupabase(projectURL, anonKey string, client *http.Client) (*Supabase, error) {
	if projectURL == "" || anonKey == "" {
		return nil, errors.New("SUPABASE_URL and SUPABASE_ANON_KEY are required")
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	authURL := strings.TrimRight(projectURL, "/") + "/auth/v1"
	return &Supabase{
		authURL: authURL,
		client:  gotrue.New("", anonKey).WithCustomGoTrueURL(authURL),
		http:    *client,
	}, nil
}

// bound returns a client whose requests carry ctx.
func (s *Supabase) bound(ctx context.Context) gotrue.Client {
	hc := s.http
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = ctxTransport{ctx: ctx, base: base}
	return s.client.WithClient(hc)
}

type ctxTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t ctxTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

func (s *Supabase) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*models.AuthSession, error) {
	const op = "Supabase.SignUp"

	resp, err := s.bound(ctx).Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     metadata,
	})
	if err != nil {
		return nil, providerError(ctx, op, err)
	}

	// full session when email confirmation is off, bare user otherwise
	sess := toSession(resp.Session)
	if sess.User.ID == "" {
		sess.User = toUser(resp.User)
	}
	if sess.User.ID == "" {
		return nil, utils.E(utils.CodeUnavailable, op, "auth provider returned no user", nil)
	}
	return sess, nil
}

func (s *Supabase) SignIn(ctx context.Context, email, password string) (*models.AuthSession, error) {
	const op = "Supabase.SignIn"

	resp, err := s.bound(ctx).SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, providerError(ctx, op, err)
	}
	return toSession(resp.Session), nil
}

func (s *Supabase) SignOut(ctx context.Context, accessToken string) error {
	if err := s.bound(ctx).WithToken(accessToken).Logout(); err != nil {
		return providerError(ctx, "Supabase.SignOut", err)
	}
	return nil
}

// AuthorizeURL is the GoTrue page the browser is sent to. The provider picks
// up redirect_to from it after the OAuth dance.
func (s *Supabase) AuthorizeURL(provider, redirectTo string) (string, error) {
	if provider == "" {
		return "", utils.E(utils.CodeInvalidArgument, "Supabase.AuthorizeURL", "provider is required", nil)
	}
	q := url.Values{}
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return s.authURL + "/authorize?" + q.Encode(), nil
}

func toSession(in types.Session) *models.AuthSession {
	return &models.AuthSession{
		AccessToken:  in.AccessToken,
		RefreshToken: in.RefreshToken,
		TokenType:    in.TokenType,
		ExpiresIn:    int(in.ExpiresIn),
		User:         toUser(in.User),
	}
}

func toUser(in types.User) models.User {
	if in.ID == uuid.Nil {
		return models.User{}
	}
	return models.User{ID: in.ID.String(), Email: in.Email}
}

var statusPattern = regexp.MustCompile(`status code (\d{3})`)

type gotrueError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e gotrueError) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// providerError maps a gotrue-go failure ("response status code N: body")
// onto an AppError.
func providerError(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return utils.E(utils.CodeTimeout, op, "auth provider timed out", err)
	}

	raw := err.Error()
	m := statusPattern.FindStringSubmatchIndex(raw)
	if m == nil {
		return utils.E(utils.CodeUnavailable, op, "auth provider unreachable", err)
	}
	status, _ := strconv.Atoi(raw[m[2]:m[3]])

	msg := http.StatusText(status)
	if i := strings.Index(raw[m[1]:], "{"); i >= 0 {
		var ge gotrueError
		if json.Unmarshal([]byte(raw[m[1]+i:]), &ge) == nil && ge.text() != "" {
			msg = ge.text()
		}
	}
	return utils.E(codeForStatus(status), op, msg, err)
}

func codeForStatus(status int) utils.Code {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnauthorized:
		return utils.CodeUnauthorized
	case status == http.StatusUnprocessableEntity:
		return utils.CodeInvalidArgument
	case status == http.StatusConflict:
		return utils.CodeConflict
	case status == http.StatusTooManyRequests:
		return utils.CodeTooManyRequests
	case status >= 500:
		return utils.CodeUnavailable
	default:
		return utils.CodeInvalidArgument
	}
}
