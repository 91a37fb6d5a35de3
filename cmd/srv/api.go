package main

import (
	"net/http"

	"github.com/pepelotto/backend/internal/middleware"
	"github.com/pepelotto/backend/pkg/router"
	"github.com/pepelotto/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadRedis()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	s.server = &http.Server{
		Addr:    xcontext.Configs(s.ctx).ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.Before(middleware.Logger())

	authRouter := s.router.Branch()
	authRouter.Before(middleware.Auth())
	{
		router.GET(authRouter, "/getUser", s.userDomain.GetUser)

		router.GET(authRouter, "/checkLotto", s.lottoDomain.Check)
		router.POST(authRouter, "/buyLotto", s.lottoDomain.Buy)
		router.POST(authRouter, "/revealLotto", s.lottoDomain.Reveal)

		router.GET(authRouter, "/checkTask", s.taskDomain.Check)
		router.POST(authRouter, "/completeTask", s.taskDomain.Complete)

		router.GET(authRouter, "/getLeaderBoard", s.statisticDomain.GetLeaderBoard)
	}
}
