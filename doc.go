// Package sxinfra is a small embedded-systems infrastructure layer providing
// three coupled runtime services to a single process: an async execution
// runtime with I/O- and CPU-biased worker pools (package asyncruntime), a
// unified message bus multiplexing a control plane (NATS-backed pub/sub,
// package bus) and a data plane (typed in-process queues, also package bus),
// and a hierarchical configuration store with hot reload (package config).
//
// infra.InitAll/infra.ShutdownAll (a package-level singleton) and
// infra.Service wire the three together with a rotating-file logging façade
// (package infra/logging), starting logging, then the runtime, then the
// config store, then the bus.
package sxinfra
