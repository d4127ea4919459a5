// Package docs provides the Swagger documentation for the API.
package docs

// @title           Plenário Chat Gateway
// @version         1.0
// @description     Multi-modal completion gateway for the Plenário legislative dashboard.

// @contact.name   API Support
// @contact.url    https://github.com/plenario-app/go-chat-gateway

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      0.0.0.0:8084
// @BasePath  /
