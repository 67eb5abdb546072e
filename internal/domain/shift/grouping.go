package shift

import (
	"path"
	"strings"
)

// Scan sources, one per form section that can carry scans, plus loose
// uploads added after the form was submitted.
const (
	SourceSecurity       = "security"
	SourceSoundLight     = "sound-light"
	SourceCashier        = "cashier"
	SourceRiderExtras    = "rider-extras"
	SourceGuests         = "guests"
	SourcePostProduction = "post-production"
)

// Output categories used in section PDF names and document labels.
const (
	CategorySettlements      = "Settlements"
	CategoryReceipts         = "Receipts"
	CategoryTowels           = "Towels"
	CategoryPurchaseReceipts = "Purchase Receipts"
	CategoryBuyoutReceipt    = "Buyout Receipt"
	CategoryTechnical        = "Technical"
	CategorySecurity         = "Security"
	CategoryAgency           = "Agency"
	CategoryAdditional       = "Additional"
)

// Document types stored by the engine.
const (
	DocumentTypeScan            = "scan"
	DocumentTypeReport          = "report"
	DocumentTypeSection         = "section"
	DocumentTypePurchaseReceipt = "purchase-receipt"
	DocumentTypeTimeTracking    = "time-tracking"
)

// SourcedRef is a scan reference tagged with the section it came from.
type SourcedRef struct {
	Source string
	Ref    ScanRef
}

// StoredDocument is the slice of a persisted document the grouper needs.
type StoredDocument struct {
	DocumentID uint64
	Type       string
	Label      string
	Path       string
}

// ResolvedScan is a scan with a storage-relative path.
type ResolvedScan struct {
	Source     string
	ScanName   string
	Path       string
	DocumentID uint64
}

// ScanGroup is the set of scans consolidated into one section PDF.
type ScanGroup struct {
	ScanName string
	Source   string
	Category string
	Scans    []ResolvedScan
}

// PathNormalizer maps a literal scan path to a storage-relative one.
type PathNormalizer func(string) (string, bool)

// CollectScanRefs lists scan references in section order: security,
// sound/light, cashier, rider extras, guests.
func CollectScanRefs(form FormSubmission) []SourcedRef {
	var refs []SourcedRef
	add := func(source string, scans []ScanRef) {
		for _, ref := range scans {
			refs = append(refs, SourcedRef{Source: source, Ref: ref})
		}
	}

	if form.Security != nil {
		add(SourceSecurity, form.Security.Scans)
	}
	if form.SoundLight != nil {
		add(SourceSoundLight, form.SoundLight.Scans)
	}
	if form.Cashier != nil {
		add(SourceCashier, form.Cashier.Scans)
	}
	if form.RiderExtras != nil {
		add(SourceRiderExtras, form.RiderExtras.Scans)
	}
	if form.Guests != nil {
		add(SourceGuests, form.Guests.Scans)
	}
	return refs
}

// ResolveScanRefs maps references to storage paths. A document id wins over
// a literal path. References that resolve to nothing are returned apart.
func ResolveScanRefs(refs []SourcedRef, docs []StoredDocument, normalize PathNormalizer) ([]ResolvedScan, []SourcedRef) {
	byID := make(map[uint64]StoredDocument, len(docs))
	for _, doc := range docs {
		byID[doc.DocumentID] = doc
	}

	resolved := make([]ResolvedScan, 0, len(refs))
	var unresolved []SourcedRef
	for _, ref := range refs {
		scan := ResolvedScan{
			Source:   ref.Source,
			ScanName: strings.TrimSpace(ref.Ref.ScanName),
		}

		if doc, ok := byID[ref.Ref.DocumentID]; ok && ref.Ref.DocumentID != 0 && doc.Path != "" {
			scan.Path = doc.Path
			scan.DocumentID = doc.DocumentID
		} else if literal := strings.TrimSpace(ref.Ref.Path); literal != "" && normalize != nil {
			if rel, ok := normalize(literal); ok {
				scan.Path = rel
			}
		}

		if scan.Path == "" {
			unresolved = append(unresolved, ref)
			continue
		}
		if scan.ScanName == "" {
			scan.ScanName = ref.Source
		}
		resolved = append(resolved, scan)
	}
	return resolved, unresolved
}

// AppendLooseScans adds persisted scan documents the form never referenced.
func AppendLooseScans(resolved []ResolvedScan, docs []StoredDocument) []ResolvedScan {
	seenIDs := make(map[uint64]struct{}, len(resolved))
	seenPaths := make(map[string]struct{}, len(resolved))
	for _, scan := range resolved {
		if scan.DocumentID != 0 {
			seenIDs[scan.DocumentID] = struct{}{}
		}
		seenPaths[path.Clean(scan.Path)] = struct{}{}
	}

	for _, doc := range docs {
		if doc.Type != DocumentTypeScan || doc.Path == "" {
			continue
		}
		if _, ok := seenIDs[doc.DocumentID]; ok {
			continue
		}
		if _, ok := seenPaths[path.Clean(doc.Path)]; ok {
			continue
		}
		seenPaths[path.Clean(doc.Path)] = struct{}{}

		name := strings.TrimSpace(doc.Label)
		if name == "" {
			name = CategoryAdditional
		}
		resolved = append(resolved, ResolvedScan{
			Source:     SourcePostProduction,
			ScanName:   name,
			Path:       doc.Path,
			DocumentID: doc.DocumentID,
		})
	}
	return resolved
}

// GroupScans groups by scan-name in first-seen order. The first scan's
// source decides the group's category.
func GroupScans(scans []ResolvedScan) []ScanGroup {
	var groups []ScanGroup
	index := make(map[string]int)
	for _, scan := range scans {
		key := strings.ToLower(scan.ScanName)
		if idx, ok := index[key]; ok {
			groups[idx].Scans = append(groups[idx].Scans, scan)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, ScanGroup{
			ScanName: scan.ScanName,
			Source:   scan.Source,
			Category: CategoryFor(scan.Source, scan.ScanName),
			Scans:    []ResolvedScan{scan},
		})
	}
	return groups
}

// CategoryFor is the source + scan-name decision table.
func CategoryFor(source string, scanName string) string {
	name := strings.ToLower(scanName)
	switch source {
	case SourceCashier:
		if strings.Contains(name, "settlement") {
			return CategorySettlements
		}
		return CategoryReceipts
	case SourceRiderExtras:
		switch {
		case strings.Contains(name, "buyout"):
			return CategoryBuyoutReceipt
		case strings.Contains(name, "purchase"):
			return CategoryPurchaseReceipts
		default:
			return CategoryTowels
		}
	case SourceSoundLight:
		return CategoryTechnical
	case SourceSecurity:
		return CategorySecurity
	case SourceGuests:
		return CategoryAgency
	case SourcePostProduction:
		return CategoryAdditional
	default:
		return CategoryReceipts
	}
}

type ReceiptMark int

const (
	ReceiptUnmarked ReceiptMark = iota
	ReceiptUnpaid
	ReceiptPaid
)

// PurchaseReceiptMark reads the paid/unpaid marker of a purchase receipt
// group. Other categories are always unmarked.
func PurchaseReceiptMark(group ScanGroup) ReceiptMark {
	if group.Category != CategoryPurchaseReceipts {
		return ReceiptUnmarked
	}
	name := strings.ToLower(group.ScanName)
	switch {
	case strings.Contains(name, "unpaid"):
		return ReceiptUnpaid
	case strings.Contains(name, "paid"):
		return ReceiptPaid
	default:
		return ReceiptUnmarked
	}
}
