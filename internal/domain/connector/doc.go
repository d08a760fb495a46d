// Package connector contains the core domain of the storefront
// synchronization engine: backend connections, identity bindings between
// local and remote records, the error taxonomy shared by importers and
// exporters, and the ports (remote adapter, binder, job queue, advisory
// lock) implemented by the infrastructure layer.
package connector
