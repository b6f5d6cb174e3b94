// Package schoolcontent provides the content layer of a school website:
// heterogeneous content kinds (news, publications, achievements, galleries,
// downloads) persisted in a relational store, each with a variable set of
// attached media items resolved through a batched aggregator, assembled into
// paginated list and detail responses.
//
// The package is organized around three collaborators:
//
//   - Repository: filter/sort/paginate/insert/update/delete access to the
//     backing collections (see repo/memory and repo/postgres).
//   - BlobStore: opaque media hosting returning public URLs for uploaded
//     assets (see storage/memory, storage/fs and storage/s3).
//   - Service: composes the two into the operations exposed over HTTP by the
//     api subpackage.
package schoolcontent
