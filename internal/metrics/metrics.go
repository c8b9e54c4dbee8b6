// SPDX-License-Identifier: MIT

// Package metrics holds the prometheus collectors shared by every idtree.Tree.
//
// Collectors are labelled by the tree's configured name.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons used for the InsertionsRejected "reason" label.
const (
	ReasonSelfParent    = "self_parent"
	ReasonMissingParent = "missing_parent"
	ReasonCycle         = "cycle"
	ReasonDuplicateID   = "duplicate_id"
	ReasonOther         = "other"
)

var (
	NodesAdded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idtree_nodes_added_total",
		Help: "Total number of nodes stored, replacements included.",
	}, []string{"tree"})

	InsertionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idtree_insertions_rejected_total",
		Help: "Total number of insertions that failed validation, labelled by reason.",
	}, []string{"tree", "reason"})

	Clears = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idtree_clears_total",
		Help: "Total number of full resets.",
	}, []string{"tree"})

	MaxDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "idtree_max_depth",
		Help: "Current cached maximum chain length.",
	}, []string{"tree"})
)
