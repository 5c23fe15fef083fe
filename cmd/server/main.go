package main

import (
	"github.com/gin-gonic/gin"

	"github.com/mahalakshmi2126/Newshub-Server/internal/dao"
	"github.com/mahalakshmi2126/Newshub-Server/internal/handler"
	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
	"github.com/mahalakshmi2126/Newshub-Server/internal/notify"
	"github.com/mahalakshmi2126/Newshub-Server/internal/service"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/server"
)

func main() {
	app := server.NewApplication("newshub-server")

	app.EnableHTTP()

	postgreSQL := app.GetPostgreSQL()
	if err := postgreSQL.AutoMigrate(
		&model.User{},
		&model.ReporterRequest{},
		&model.Article{},
		&model.ArticleTranslation{},
		&model.Bookmark{},
		&model.Comment{},
		&model.CommentLike{},
	); err != nil {
		panic("Failed to migrate database: " + err.Error())
	}

	cfg := app.GetConfig()
	log := app.GetLogger()

	userDAO := dao.NewUserDAO(postgreSQL)
	articleDAO := dao.NewArticleDAO(postgreSQL)
	commentDAO := dao.NewCommentDAO(postgreSQL)
	analyticsDAO := dao.NewAnalyticsDAO(app.GetMongoDB())
	searchDAO := dao.NewSearchDAO(app.GetElasticSearch().GetClient(), cfg.Search.Index, log)

	dispatcher := notify.NewKafkaDispatcher(
		app.GetKafkaProducer(), cfg.Push.Topic, cfg.Push.BatchSize, log)

	userSvc := service.NewUserService(userDAO, log)
	articleSvc := service.NewArticleService(
		articleDAO, userDAO, searchDAO, analyticsDAO, app.GetRedisClient(), log)
	commentSvc := service.NewCommentService(
		commentDAO, userDAO, app.GetRedisClient(), app.GetKafkaProducer(), log)
	moderationSvc := service.NewModerationService(
		articleDAO, userDAO, searchDAO, app.GetRedisClient(), app.GetKafkaProducer(),
		dispatcher, cfg.App.FrontendURL, cfg.Push.DefaultIcon, log)
	analyticsSvc := service.NewAnalyticsService(analyticsDAO, articleDAO)

	authMW := app.GetAuthMiddleware()
	userHandler := handler.NewUserHandler(userSvc, authMW, log)
	articleHandler := handler.NewArticleHandler(articleSvc, moderationSvc, authMW, log)
	commentHandler := handler.NewCommentHandler(commentSvc, log)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, authMW, log)

	app.RegisterHTTPRoutes(func(engine *gin.Engine) {
		userHandler.RegisterRoutes(engine)
		articleHandler.RegisterRoutes(engine)
		commentHandler.RegisterRoutes(engine)
		analyticsHandler.RegisterRoutes(engine)
	})

	if err := app.Run(); err != nil {
		panic(err)
	}
}
