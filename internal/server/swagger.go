package server

//go:generate swag init -g internal/server/server.go -o docs/swagger

// @title SecLens API
// @version 0.1
// @description Interactive documentation for the SecLens assessment API surface.
// @contact.name SecLens Maintainers
// @contact.url https://github.com/seclens/seclens
// @BasePath /
