package handler

import "github.com/go-chi/chi/v5"

// Resources groups the entity handlers mounted by MountResources.
type Resources struct {
	Users *UserHandler
	Lists *ListHandler
	Tasks *TaskHandler
}

// MountResources registers the user, list and task routes on r.
func MountResources(r chi.Router, res Resources) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", res.Users.List)
		r.Post("/", res.Users.Create)
		r.Get("/{id}", res.Users.Get)
		r.Put("/{id}", res.Users.Update)
		r.Delete("/{id}", res.Users.Delete)
	})

	r.Route("/lists", func(r chi.Router) {
		r.Get("/", res.Lists.List)
		r.Post("/", res.Lists.Create)
		r.Get("/user/{id}", res.Lists.ListByUser)
		r.Get("/{id}", res.Lists.Get)
		r.Put("/{id}", res.Lists.Update)
		r.Delete("/{id}", res.Lists.Delete)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", res.Tasks.List)
		r.Post("/", res.Tasks.Create)
		r.Get("/list/{id}", res.Tasks.ListByList)
		r.Get("/{id}", res.Tasks.Get)
		r.Put("/{id}", res.Tasks.Update)
		r.Delete("/{id}", res.Tasks.Delete)
	})
}
