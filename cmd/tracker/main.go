// @title        Tracker API
// @version      1.0
// @description  Tasks, documents and emails kept in sync with a remote store.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
