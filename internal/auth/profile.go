package auth

import (
	"encoding/json"
	"fmt"
)

// Token is the part of the provider token response the login flow needs.
type Token struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int64  `json:"expires_in"`
	OpenID       string `json:"open_id"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
}

// Profile is a read-only snapshot of the TikTok user. It is never stored.
type Profile struct {
	OpenID         string `json:"open_id"`
	UnionID        string `json:"union_id"`
	DisplayName    string `json:"display_name"`
	Username       string `json:"username"`
	AvatarURL      string `json:"avatar_url"`
	BioDescription string `json:"bio_description"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
	LikesCount     int64  `json:"likes_count"`
}

func DecodeToken(body []byte) (Token, error) {
	var t Token
	if err := json.Unmarshal(body, &t); err != nil {
		return Token{}, fmt.Errorf("decode token: %w", err)
	}
	return t, nil
}

// DecodeProfile reads the {"data": {"user": {...}}} envelope.
func DecodeProfile(body []byte) (*Profile, error) {
	var envelope struct {
		Data struct {
			User *Profile `json:"user"`
		} `json:"data"`
	}

	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if envelope.Data.User == nil {
		return nil, fmt.Errorf("decode profile: response has no user")
	}

	return envelope.Data.User, nil
}
