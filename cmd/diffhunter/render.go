package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aleister1102/diffhunter/internal/classification"
	"github.com/aleister1102/diffhunter/internal/models"
	"github.com/aleister1102/diffhunter/internal/session"
)

const previewRunes = 60

func printClassification(w io.Writer, sess *session.Session, outcome classification.Outcome) error {
	if outcome.Status != classification.PassCommitted {
		return fmt.Errorf("classification pass %d was %s", outcome.Version, outcome.Status)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMETHOD\tHOST\tENDPOINT\tSTATUS\tDIFF\tMARK")
	target, _ := sess.Target()
	for _, ex := range sess.Captures().Snapshot() {
		mark := ""
		switch {
		case ex.ID == target.ID:
			mark = "target"
		case ex.Marked:
			mark = "marked"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			ex.ID, ex.Method, ex.Host, ex.Endpoint(), ex.StatusCode, outcome.Types[ex.ID], mark)
	}
	return tw.Flush()
}

func printPairDiff(w io.Writer, pd session.PairDiff) error {
	fmt.Fprintf(w, "Target #%d vs #%d (character level: %t, hex: %t)\n", pd.TargetID, pd.EntryID, pd.CharacterLevel, pd.HexMode)
	if err := printSide(w, "Request", pd.Request); err != nil {
		return err
	}
	return printSide(w, "Response", pd.Response)
}

func printSide(w io.Writer, name string, sd session.SideDiff) error {
	fmt.Fprintf(w, "\n== %s (%d segments) ==\n", name, len(sd.Segments))
	if sd.Err != nil {
		fmt.Fprintf(w, "diff failed: %v\n", sd.Err)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SIDE\tTYPE\tLINE\tROW\tRANGE\tCONTENT")
	for _, seg := range sd.Segments {
		side := "+"
		if seg.IsOriginal {
			side = "-"
		}
		row := "-"
		if seg.ParentLineIndex != models.NoParent {
			row = fmt.Sprint(seg.ParentLineIndex)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d..%d\t%q\n",
			side, seg.Label(), seg.LineNumber, row, seg.StartOffset, seg.EndOffset, seg.Preview(previewRunes))
	}
	return tw.Flush()
}
