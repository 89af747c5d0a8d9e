/*
Package observability provides Prometheus metrics for the Waymark engine.

Metrics plugs into domain.LifecycleHooks, so any Engine can be instrumented
without the checklist or calendar code knowing about Prometheus.
*/
package observability
