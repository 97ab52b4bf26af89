// Package docs provides generated OpenAPI documentation.
//
// provlink API
//
//	@title			provlink API
//	@version		1.0
//	@description	Review sessions that link extracted form fields to their source regions in the original document.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/provlink
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/provlink/serve.go -o ./swagger --parseDependency --parseInternal
