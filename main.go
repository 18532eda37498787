package main

import "github.com/killallgit/transcriptflow-api/cmd"

// @title           TranscriptFlow API
// @version         1.0.0
// @description     Transcript extraction for single YouTube videos and whole channels, with asynchronous batch jobs and a saved transcript library.
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/transcriptflow-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Supabase access token, sent as "Bearer <token>"
func main() {
	cmd.Execute()
}
