// Package http provides the HTTP adapters for the hosting platform.
//
// Two surfaces live here:
//   - AdminAPI mounts project management under /admin/api: /projects,
//     /projects/{id}, /projects/{id}/disabled, /projects/{id}/versions,
//     /projects/{id}/subprojects, /projects/{id}/translations,
//     /projects/{id}/domains.
//   - ProxitoServer serves documentation traffic: it resolves the inbound
//     hostname and path to a project/version/filename and streams the stored
//     bytes, plus /robots.txt, /sitemap.xml, and /_/health.
//
// BillingWebhooks additionally exposes POST /webhooks/billing for payment
// provider events. It registers on whichever mux hosts the admin surface.
//
// Host applications can register handlers on their own mux/router as needed.
package http
