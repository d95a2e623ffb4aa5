// Package cryptofolio computes realized capital gains for a chronological
// stream of crypto-asset transactions using first-in-first-out tax-lot
// accounting.
//
// The package is built around three cooperating pieces:
//
//   - Ledger: per-asset FIFO queues of open tax lots, consumed oldest
//     first on disposal, emitting one CapitalGain record per lot touched.
//   - AccountingSystem: a single-pass processor that dispatches canonical
//     transactions to the ledger and annotates each with its net gain.
//   - PriceHistory: a sparse per-asset time series of fiat price samples
//     with linear interpolation, used to value transactions and to compute
//     which time windows still need to be backfilled from an external
//     price source.
//
// All quantities, prices, and gains are decimal.Decimal values; the
// reporting fiat currency is a fixed parameter of the computation.
package cryptofolio
