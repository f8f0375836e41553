// Package app assembles the sample application: the framework providers
// plus the providers under app/providers.
package app

import (
	"github.com/km-arc/go-lifetime/app/providers"
	framework "github.com/km-arc/go-lifetime/framework/app"
)

// New bootstraps the sample application.
//
//	application, err := app.New()
//	application.Run(ctx)
func New(envFiles ...string) (*framework.Application, error) {
	application := framework.New(envFiles...)
	if err := application.Register(&providers.AppServiceProvider{}); err != nil {
		return nil, err
	}
	if err := application.Boot(); err != nil {
		return nil, err
	}
	return application, nil
}
