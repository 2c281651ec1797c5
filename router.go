package main

import (
	handler "homework-wall/biz/adaptor/controller"
	"homework-wall/biz/adaptor/controller/gallery"

	"github.com/cloudwego/hertz/pkg/app/server"
)

// customizeRegister registers customize routers.
func customizedRegister(r *server.Hertz) {
	r.GET("/ping", handler.Ping)

	apiV1 := r.Group("/api/v1")
	{
		homeworks := apiV1.Group("/homeworks")
		{
			homeworks.GET("", gallery.ListHomeworks)
			homeworks.POST("", gallery.SubmitHomework)
			homeworks.DELETE("/:id", gallery.DeleteHomework)
		}

		session := apiV1.Group("/session")
		{
			session.GET("", gallery.GetSession)
			session.PUT("/screen", gallery.SetScreen)
			session.POST("/login", gallery.Login)
			session.POST("/logout", gallery.Logout)
		}

		setup := apiV1.Group("/setup")
		{
			setup.GET("", gallery.GetSetupStatus)
			setup.POST("", gallery.Configure)
			setup.DELETE("", gallery.ResetSetup)
		}

		apiV1.GET("/events", gallery.Events)
	}
}
