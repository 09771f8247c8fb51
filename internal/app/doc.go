// Package app is atelier's composition root.
//
// Run loads the config, sends the standard logger to the log file, builds
// the gateway client and the shared pieces (toast center, collection cache,
// cart bus), and hands them to the UI. The cache and the bus are created
// here once and passed down; nothing in atelier reaches for a global.
//
// # Startup
//
//	config.Load ──> tea.LogToFile ──> masterpieces.NewClient
//	     │
//	     ├──> catalog.NewBrowser(client, cache, toasts)
//	     ├──> cart.New(user, client, bus, toasts)
//	     ├──> initialLoad   collections | cart | site config (errgroup)
//	     ├──> StartPoller   cart refresh with backoff
//	     └──> ui.Run        blocks until quit
//
// Initial load failures are not fatal. Each component records its own error
// and the UI shows whatever loaded. Only config and client construction
// errors stop Run.
//
// # Polling
//
// The poller refreshes the cart every poll_interval so changes made
// elsewhere show up. After consecutive failures the wait doubles, capped at
// 30 seconds. Without a user id there is no cart and no poller.
package app
