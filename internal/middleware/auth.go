package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pepelotto/backend/internal/model"
	"github.com/pepelotto/backend/pkg/crypto"
	"github.com/pepelotto/backend/pkg/errorx"
	"github.com/pepelotto/backend/pkg/router"
	"github.com/pepelotto/backend/pkg/xcontext"
)

// Telegram derives the init data secret from the bot token under this
// constant key. See the Mini Apps init data specification.
const initDataSecretKey = "WebAppData"

type telegramUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	IsPremium bool   `json:"is_premium"`
}

// Auth verifies the Telegram Mini App init data carried in the
// Authorization header ("tma <init-data>") and puts the verified user into
// the context.
func Auth() router.MiddlewareFunc {
	return func(ctx context.Context, r *http.Request) (context.Context, error) {
		authType, initData, found := strings.Cut(r.Header.Get("Authorization"), " ")
		if !found || authType != "tma" {
			return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
		}

		cfg := xcontext.Configs(ctx).Telegram
		user, err := verifyInitData(initData, cfg.BotToken, cfg.InitDataExpiration)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid init data: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
		}

		return xcontext.WithRequestUser(ctx, model.RequestUser{
			ID:        strconv.FormatInt(user.ID, 10),
			Name:      user.Username,
			IsPremium: user.IsPremium,
		}), nil
	}
}

func verifyInitData(initData, botToken string, expiration time.Duration) (*telegramUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, err
	}

	hash := values.Get("hash")
	if hash == "" {
		return nil, errorx.New(errorx.Unauthenticated, "missing hash")
	}

	pairs := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}

		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)

	secret := crypto.HMACSum(sha256.New, []byte(botToken), []byte(initDataSecretKey))
	expected := crypto.HMAC(sha256.New, []byte(strings.Join(pairs, "\n")), secret)
	if expected != hash {
		return nil, errorx.New(errorx.Unauthenticated, "hash mismatch")
	}

	if expiration > 0 {
		authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
		if err != nil {
			return nil, err
		}

		if time.Since(time.Unix(authDate, 0)) > expiration {
			return nil, errorx.New(errorx.Unauthenticated, "init data expired")
		}
	}

	var user telegramUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil {
		return nil, err
	}

	return &user, nil
}
