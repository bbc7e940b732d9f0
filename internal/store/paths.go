package store

import (
	"path"
	"strconv"
	"strings"

	"github.com/GregMSThompson/coop-backend/internal/models"
)

const (
	pathMembers      = "Members"
	pathAdmins       = "Users/Admin"
	pathCoAdmins     = "Users/CoAdmin"
	pathSettings     = "Settings"
	pathTransactions = "Transactions"
	pathArchive      = "ArchivedData"
	pathCounters     = "Counters"
	pathDividends    = "Dividends"

	pathRegistrations = "Registrations"
	pathLoans         = "Loans"

	counterMembers  = "Members"
	counterCoAdmins = "CoAdmins"
)

const (
	sectionCurrentLoans = "CurrentLoans"
	sectionPaidLoans    = "PaidLoans"
)

// sections names the Pending/Approved/Rejected subtrees of each request
// kind, matching the layout the mobile app writes.
var sections = map[models.RequestKind][3]string{
	models.KindDeposit:    {"DepositApplications", "ApprovedDeposits", "RejectedDeposits"},
	models.KindWithdrawal: {"WithdrawApplications", "ApprovedWithdraws", "RejectedWithdraws"},
	models.KindPayment:    {"PaymentApplications", "ApprovedPayments", "RejectedPayments"},
	models.KindLoan:       {"LoanApplications", "ApprovedLoans", "RejectedLoans"},
}

var roots = map[models.RequestKind]string{
	models.KindDeposit:    "Deposits",
	models.KindWithdrawal: "Withdrawals",
	models.KindPayment:    "Payments",
	models.KindLoan:       pathLoans,
}

var registrationSections = [3]string{"RegistrationApplications", "ApprovedRegistrations", "RejectedRegistrations"}

// ValidKey reports whether id can be used as a single path segment. Keys
// that are empty, dot segments, or contain characters the database
// forbids in keys would address a different node.
func ValidKey(id string) bool {
	return id != "" && !strings.ContainsAny(id, "/.$#[]")
}

func statusIndex(status string) int {
	switch status {
	case models.StatusApproved:
		return 1
	case models.StatusRejected:
		return 2
	}
	return 0
}

func requestSection(kind models.RequestKind, status string) string {
	return path.Join(roots[kind], sections[kind][statusIndex(status)])
}

func applicationPath(kind models.RequestKind, status, memberID, txID string) string {
	return path.Join(requestSection(kind, status), memberID, txID)
}

func registrationPath(status, id string) string {
	return path.Join(pathRegistrations, registrationSections[statusIndex(status)], id)
}

func memberPath(id string) string {
	return path.Join(pathMembers, id)
}

func coAdminPath(id string) string {
	return path.Join(pathCoAdmins, id)
}

func currentLoanPath(memberID, txID string) string {
	return path.Join(pathLoans, sectionCurrentLoans, memberID, txID)
}

func paidLoanPath(memberID, txID string) string {
	return path.Join(pathLoans, sectionPaidLoans, memberID, txID)
}

func transactionPath(txType, memberID, txID string) string {
	return path.Join(pathTransactions, txType, memberID, txID)
}

func archivePath(entity, id string) string {
	return path.Join(pathArchive, entity, id)
}

func dividendPath(year int) string {
	return path.Join(pathDividends, strconv.Itoa(year))
}
