package auth

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Service struct {
	jwt         *JWTManager
	redisClient *redis.Client
}

func NewService(jwt *JWTManager, redisClient *redis.Client) *Service {
	return &Service{
		jwt:         jwt,
		redisClient: redisClient,
	}
}

func (s *Service) GenerateTokens(ctx context.Context, userID, email string) (*TokenPair, error) {
	pair, tokenID, err := s.jwt.GenerateTokenPair(userID, email)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("refresh:%s:%s", userID, tokenID)
	err = s.redisClient.Set(ctx, key, "1", s.jwt.RefreshExpiry()).Err()
	if err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}

	return pair, nil
}

// RefreshTokens rotates the refresh token: the presented token is revoked and
// a fresh pair is issued.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	key := fmt.Sprintf("refresh:%s:%s", claims.UserID, claims.TokenID)
	exists, err := s.redisClient.Exists(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("checking refresh token: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("refresh token revoked")
	}

	s.redisClient.Del(ctx, key)

	return s.GenerateTokens(ctx, claims.UserID, claims.Email)
}

// Logout revokes every outstanding refresh token for the account.
func (s *Service) Logout(ctx context.Context, userID string) error {
	pattern := fmt.Sprintf("refresh:%s:*", userID)
	iter := s.redisClient.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		s.redisClient.Del(ctx, iter.Val())
	}
	return iter.Err()
}

func (s *Service) ValidateAccessToken(token string) (*AccessClaims, error) {
	return s.jwt.ValidateAccessToken(token)
}
