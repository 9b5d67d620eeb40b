package store

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/statement-extractor/internal/extraction"
	"github.com/zombor/statement-extractor/internal/statement"
)

var _ = Describe("BoltDB", func() {
	var (
		db  *BoltDB
		now time.Time
	)

	newRecord := func(id string) *Record {
		credit := "25,000.00"
		return &Record{
			ID:       id,
			Filename: "january.pdf",
			Accounts: []statement.Account{{
				BankName:      "HDFC Bank",
				AccountHolder: "John Doe",
				Transactions: []statement.Transaction{
					{Date: "05-Jan-26", Description: "Salary", Credit: &credit, Balance: "75,000.00"},
				},
			}},
			TextLength: 1200,
			Source:     extraction.SourceNative,
			CreatedAt:  now,
		}
	}

	BeforeEach(func() {
		now = time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)
		var err error
		db, err = NewBoltDB(filepath.Join(GinkgoT().TempDir(), "test.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("SaveRecord", func() {
		var err error

		JustBeforeEach(func() {
			err = db.SaveRecord(newRecord("rec-1"))
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should round-trip the accounts", func() {
			saved, getErr := db.GetRecord("rec-1")
			Expect(getErr).NotTo(HaveOccurred())
			Expect(saved).To(Equal(newRecord("rec-1")))
		})
	})

	Describe("GetRecord", func() {
		When("record does not exist", func() {
			It("returns ErrNotFound", func() {
				_, err := db.GetRecord("nonexistent")
				Expect(err).To(MatchError(ErrNotFound))
				Expect(err).To(MatchError(ContainSubstring("nonexistent")))
			})
		})
	})

	Describe("ListRecords", func() {
		When("records exist", func() {
			BeforeEach(func() {
				Expect(db.SaveRecord(newRecord("b"))).To(Succeed())
				Expect(db.SaveRecord(newRecord("a"))).To(Succeed())
			})

			It("returns them in key order", func() {
				records, err := db.ListRecords()
				Expect(err).NotTo(HaveOccurred())
				Expect(records).To(HaveLen(2))
				Expect(records[0].ID).To(Equal("a"))
				Expect(records[1].ID).To(Equal("b"))
			})
		})

		When("no records exist", func() {
			It("returns an empty slice", func() {
				records, err := db.ListRecords()
				Expect(err).NotTo(HaveOccurred())
				Expect(records).NotTo(BeNil())
				Expect(records).To(BeEmpty())
			})
		})
	})

	Describe("DeleteRecord", func() {
		When("record exists", func() {
			BeforeEach(func() {
				Expect(db.SaveRecord(newRecord("rec-1"))).To(Succeed())
			})

			It("removes it", func() {
				Expect(db.DeleteRecord("rec-1")).To(Succeed())
				_, err := db.GetRecord("rec-1")
				Expect(err).To(MatchError(ErrNotFound))
			})
		})

		When("record does not exist", func() {
			It("returns ErrNotFound", func() {
				Expect(db.DeleteRecord("missing")).To(MatchError(ErrNotFound))
			})
		})
	})
})
