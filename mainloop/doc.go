// Package mainloop provides the execution context navigators run on.
//
// Navigators are single-threaded: every call on a navigator, and every
// listener callback it makes, must happen on one logical thread. A Loop
// owns that thread. Other goroutines hand work to it with Post, or with Do
// when they need to wait for the result.
//
// # Example Usage
//
//	loop := mainloop.New(mainloop.Config{Logger: logger})
//	go loop.Run(ctx)
//	defer loop.Stop()
//
//	nav := scenenav.NewStackNavigator(initial)
//	loop.Do(ctx, nav.Start)
//	loop.Post(func() { nav.Push(next) })
//
// # Batching
//
// Work is collected into a batch and executed in posting order. With a zero
// TickRate a batch runs as soon as the loop wakes up; with a positive
// TickRate batches run at fixed tick boundaries, which makes the order of
// work posted by concurrent goroutines within one tick reproducible for a
// given sequence of Post calls.
package mainloop
