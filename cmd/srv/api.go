package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/wealthfund/backend/config"
	"github.com/wealthfund/backend/internal/middleware"
	"github.com/wealthfund/backend/pkg/prometheus"
	"github.com/wealthfund/backend/pkg/router"
	"github.com/wealthfund/backend/pkg/xcontext"
	"golang.org/x/sync/errgroup"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadDatabase()
	s.loadSnowFlake()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadStorage()
	s.loadRepos()
	s.loadDomains()

	cfg := xcontext.Configs(s.ctx)
	apiServer := &http.Server{
		Addr:              cfg.ApiServer.Address(),
		Handler:           s.loadRouter().Handler(cfg.ApiServer.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	promServer := &http.Server{
		Addr:              cfg.PrometheusServer.Address(),
		Handler:           prometheus.NewHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	signalCtx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(signalCtx)
	for _, server := range []*http.Server{apiServer, promServer} {
		server := server
		group.Go(func() error {
			xcontext.Logger(s.ctx).Infof("Starting server on %s", server.Addr)
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			return nil
		})
	}

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = apiServer.Shutdown(shutdownCtx)
		_ = promServer.Shutdown(shutdownCtx)
		return nil
	})

	return group.Wait()
}

func (s *srv) loadRouter() *router.Router {
	defaultRouter := router.New(s.ctx)
	defaultRouter.Before(middleware.WithStartTime())
	defaultRouter.AddCloser(middleware.Logger())
	defaultRouter.AddCloser(middleware.Prometheus())

	userCookie := func(cfg config.AuthConfigs) config.TokenConfigs { return cfg.AccessToken }
	adminCookie := func(cfg config.AuthConfigs) config.TokenConfigs { return cfg.AdminToken }
	authVerifier := middleware.NewAuthVerifier(s.userRepo, s.adminRepo)

	// Public API.
	publicRouter := defaultRouter.Branch()
	publicRouter.After(middleware.HandleSetAccessToken(userCookie))
	{
		router.POST(publicRouter, "/requestRegisterOTP", s.authDomain.RequestRegisterOTP)
		router.POST(publicRouter, "/register", s.authDomain.Register)
		router.POST(publicRouter, "/login", s.authDomain.Login)
		router.POST(publicRouter, "/requestPasswordResetOTP", s.authDomain.RequestPasswordResetOTP)
		router.POST(publicRouter, "/resetPassword", s.authDomain.ResetPassword)
		router.GET(publicRouter, "/getPlatformSettings", s.settingDomain.GetPlatformSettings)
		router.GET(publicRouter, "/getPlans", s.planDomain.GetPlans)
		router.GET(publicRouter, "/getComments", s.commentDomain.GetComments)
		router.GET(publicRouter, "/getLuckyDrawWheel", s.prizeDomain.GetLuckyDrawWheel)
	}

	adminLoginRouter := defaultRouter.Branch()
	adminLoginRouter.After(middleware.HandleSetAccessToken(adminCookie))
	router.POST(adminLoginRouter, "/adminLogin", s.authDomain.AdminLogin)

	// These following APIs need an authenticated user.
	userRouter := defaultRouter.Branch()
	userRouter.Before(authVerifier.Middleware(cfgTokenName(s.ctx, userCookie)))
	userRouter.Before(middleware.Authenticate())
	{
		// User API
		router.GET(userRouter, "/getMe", s.userDomain.GetMe)
		router.POST(userRouter, "/updateProfile", s.userDomain.UpdateProfile)
		router.POST(userRouter, "/uploadAvatar", s.userDomain.UploadAvatar)
		router.POST(userRouter, "/changePassword", s.userDomain.ChangePassword)
		router.POST(userRouter, "/requestBankAccountOTP", s.userDomain.RequestBankAccountOTP)
		router.POST(userRouter, "/updateBankAccount", s.userDomain.UpdateBankAccount)
		router.POST(userRouter, "/requestFundPasswordOTP", s.userDomain.RequestFundPasswordOTP)
		router.POST(userRouter, "/updateFundPassword", s.userDomain.UpdateFundPassword)
		router.GET(userRouter, "/getTransactions", s.userDomain.GetTransactions)
		router.GET(userRouter, "/getInvestments", s.userDomain.GetInvestments)
		router.POST(userRouter, "/markNotificationsAsRead", s.userDomain.MarkNotificationsAsRead)

		// Ledger API
		router.POST(userRouter, "/initiateDeposit", s.ledgerDomain.InitiateDeposit)
		router.POST(userRouter, "/confirmDeposit", s.ledgerDomain.ConfirmDeposit)
		router.POST(userRouter, "/withdraw", s.ledgerDomain.Withdraw)
		router.POST(userRouter, "/invest", s.ledgerDomain.Invest)
		router.POST(userRouter, "/checkIn", s.ledgerDomain.CheckIn)
		router.POST(userRouter, "/playLuckyDraw", s.ledgerDomain.PlayLuckyDraw)

		// Community API
		router.POST(userRouter, "/createComment", s.commentDomain.CreateComment)
		router.POST(userRouter, "/updateComment", s.commentDomain.UpdateComment)
		router.POST(userRouter, "/deleteComment", s.commentDomain.DeleteComment)
		router.POST(userRouter, "/uploadImage", s.commentDomain.UploadImage)

		// Chat API
		router.GET(userRouter, "/getChat", s.chatDomain.GetChat)
		router.POST(userRouter, "/sendChatMessage", s.chatDomain.SendChatMessage)
		router.POST(userRouter, "/markChatAsRead", s.chatDomain.MarkChatAsRead)
		userRouter.Websocket("/chat/ws", s.chatDomain.ServeWebsocket)
	}

	// These following APIs need an authenticated admin.
	adminRouter := defaultRouter.Branch()
	adminRouter.Before(authVerifier.Middleware(cfgTokenName(s.ctx, adminCookie)))
	adminRouter.Before(middleware.NewOnlyAdmin().Middleware())
	adminRouter.After(middleware.HandleSetAccessToken(userCookie))
	{
		router.GET(adminRouter, "/admin/getDashboard", s.adminDomain.GetDashboard)
		router.GET(adminRouter, "/admin/getUsers", s.adminDomain.GetUsers)
		router.POST(adminRouter, "/admin/updateUser", s.adminDomain.UpdateUser)
		router.POST(adminRouter, "/admin/deleteUser", s.adminDomain.DeleteUser)
		router.POST(adminRouter, "/admin/loginAsUser", s.adminDomain.LoginAsUser)
		router.POST(adminRouter, "/admin/changePassword", s.adminDomain.ChangePassword)
		router.GET(adminRouter, "/admin/getActivityLog", s.adminDomain.GetActivityLog)

		router.POST(adminRouter, "/admin/createPlan", s.planDomain.CreatePlan)
		router.POST(adminRouter, "/admin/updatePlan", s.planDomain.UpdatePlan)
		router.POST(adminRouter, "/admin/deletePlan", s.planDomain.DeletePlan)

		router.GET(adminRouter, "/admin/getPrizes", s.prizeDomain.GetPrizes)
		router.POST(adminRouter, "/admin/createPrize", s.prizeDomain.CreatePrize)
		router.POST(adminRouter, "/admin/updatePrize", s.prizeDomain.UpdatePrize)
		router.POST(adminRouter, "/admin/deletePrize", s.prizeDomain.DeletePrize)

		router.POST(adminRouter, "/admin/updatePlatformSettings", s.settingDomain.UpdatePlatformSettings)
		router.GET(adminRouter, "/admin/getPaymentSettings", s.settingDomain.GetPaymentSettings)
		router.POST(adminRouter, "/admin/updatePaymentSettings", s.settingDomain.UpdatePaymentSettings)

		router.POST(adminRouter, "/admin/deleteComment", s.commentDomain.DeleteComment)

		router.GET(adminRouter, "/admin/getChatSessions", s.chatDomain.GetChatSessions)
		router.POST(adminRouter, "/admin/sendChatMessage", s.chatDomain.AdminSendChatMessage)
		router.POST(adminRouter, "/admin/markChatAsRead", s.chatDomain.AdminMarkChatAsRead)
		adminRouter.Websocket("/admin/chat/ws", s.chatDomain.ServeWebsocket)
	}

	return defaultRouter
}

func cfgTokenName(ctx context.Context, selectToken func(config.AuthConfigs) config.TokenConfigs) string {
	return selectToken(xcontext.Configs(ctx).Auth).Name
}
