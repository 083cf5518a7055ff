package main

// General API documentation for swaggo. Run `swag init -g cmd/llamachat/docs.go` to regenerate docs/.
//
// @title           llamachat API
// @version         1.0
// @description     Single-turn chat over a local Llama-2 model.
//
// @contact.name   llamachat maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
