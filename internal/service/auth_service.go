package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/internal/repository"
	"github.com/fisker/zhr-backend/pkg/logger"
)

// Claims JWT载荷
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService 认证服务
type AuthService struct {
	users     *repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService 创建认证服务
func NewAuthService(users *repository.UserRepository, jwtSecret string) *AuthService {
	key := []byte(jwtSecret)
	if len(key) == 0 {
		// 未配置时的开发环境默认值
		key = []byte("zhr-dev-jwt-secret-do-not-use-in-production")
	}
	return &AuthService{
		users:     users,
		jwtSecret: key,
		tokenTTL:  24 * time.Hour,
	}
}

// Register 用户注册
func (s *AuthService) Register(req *model.RegisterRequest) (*model.User, error) {
	existing, err := s.users.FindByUsername(req.Username)
	if err != nil {
		return nil, fmt.Errorf("检查用户名失败: %w", err)
	}
	if existing != nil {
		return nil, errors.New("用户名已存在")
	}

	if req.Email != "" {
		byEmail, err := s.users.FindByEmail(req.Email)
		if err != nil {
			return nil, fmt.Errorf("检查邮箱失败: %w", err)
		}
		if byEmail != nil {
			return nil, errors.New("邮箱已被使用")
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	user := &model.User{
		ID:       uuid.New().String(),
		Username: req.Username,
		Password: string(hashed),
		Email:    req.Email,
		FullName: req.FullName,
		Role:     "user",
		Status:   "active",
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	logger.Infof("User registered: %s", user.Username)
	return user, nil
}

// Login 用户登录，成功后返回JWT
func (s *AuthService) Login(req *model.LoginRequest, clientIP string) (*model.LoginResponse, error) {
	user, err := s.users.FindByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("用户名或密码错误")
	}
	if user.Status != "active" {
		return nil, errors.New("账号已被禁用")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("用户名或密码错误")
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, fmt.Errorf("签发令牌失败: %w", err)
	}

	if err := s.users.UpdateLastLogin(user.ID, clientIP); err != nil {
		logger.Warnf("Failed to update last login for %s: %v", user.Username, err)
	}

	return &model.LoginResponse{
		Token: token,
		User:  *user,
	}, nil
}

// ParseToken 校验并解析JWT
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("无效的令牌")
	}
	return claims, nil
}

// GetUser 按ID查询用户
func (s *AuthService) GetUser(id string) (*model.User, error) {
	return s.users.FindByID(id)
}

func (s *AuthService) signToken(user *model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
