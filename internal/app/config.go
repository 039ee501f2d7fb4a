package app

import (
	"time"

	"github.com/coursepath/coursepath-backend/internal/logger"
	"github.com/coursepath/coursepath-backend/internal/server"
	"github.com/coursepath/coursepath-backend/internal/utils"
)

type Config struct {
	Port             string
	JWTSecretKey     string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	AllowedOrigins   []string
	SearchMaxResults int
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 604800, log)
	origins := server.SplitOrigins(utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log))
	searchMaxResults := utils.GetEnvAsInt("SEARCH_MAX_RESULTS", 15, log)
	return Config{
		Port:             port,
		JWTSecretKey:     jwtSecretKey,
		AccessTokenTTL:   time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL:  time.Duration(refreshTokenTTLSeconds) * time.Second,
		AllowedOrigins:   origins,
		SearchMaxResults: searchMaxResults,
	}
}
