package tap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/exo-archive/exovel"
	"github.com/exo-archive/exovel/util"
)

const votableBody = `<?xml version="1.0" encoding="UTF-8"?>
<VOTABLE version="1.3">
  <RESOURCE type="results">
    <INFO name="QUERY_STATUS" value="OK"/>
    <TABLE>
      <FIELD name="pl_name" datatype="char" arraysize="*"/>
      <FIELD name="pl_rade" datatype="double" unit="Rearth"/>
      <FIELD name="pl_bmasse" datatype="double" unit="Mearth"/>
      <DATA>
        <TABLEDATA>
          <TR><TD>Kepler-22 b</TD><TD>2.4</TD><TD>9.1</TD></TR>
          <TR><TD>TRAPPIST-1 e</TD><TD>0.92</TD><TD></TD></TR>
        </TABLEDATA>
      </DATA>
    </TABLE>
  </RESOURCE>
</VOTABLE>`

const votableErrorBody = `<?xml version="1.0" encoding="UTF-8"?>
<VOTABLE version="1.3">
  <RESOURCE type="results">
    <INFO name="QUERY_STATUS" value="ERROR">column pl_nonsense does not exist</INFO>
  </RESOURCE>
</VOTABLE>`

var _ = Describe("Client", func() {
	var ctx context.Context
	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("QuerySync with votable responses", func() {
		It("parses columns and rows, mapping empty numeric cells to null", func() {
			var gotQuery, gotFormat, gotLang string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Method).To(Equal(http.MethodPost))
				Expect(r.URL.Path).To(Equal("/sync"))
				gotQuery = r.FormValue("QUERY")
				gotFormat = r.FormValue("FORMAT")
				gotLang = r.FormValue("LANG")
				w.Write([]byte(votableBody))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			resultSet, err := client.QuerySync(ctx, "SELECT pl_name, pl_rade, pl_bmasse FROM pscomppars")
			Expect(err).ToNot(HaveOccurred())

			Expect(gotQuery).To(Equal("SELECT pl_name, pl_rade, pl_bmasse FROM pscomppars"))
			Expect(gotFormat).To(Equal("votable"))
			Expect(gotLang).To(Equal("ADQL"))

			columns := resultSet.ResultSetMetadata.ColumnInfo
			Expect(len(columns)).To(Equal(3))
			Expect(util.SafeString(columns[0].Name)).To(Equal("pl_name"))
			Expect(util.SafeString(columns[0].Type)).To(Equal("char"))
			Expect(util.SafeString(columns[1].Type)).To(Equal("double"))
			Expect(util.SafeString(columns[1].Unit)).To(Equal("Rearth"))

			Expect(len(resultSet.Rows)).To(Equal(2))
			Expect(util.SafeString(resultSet.Rows[0].Data[0].Value)).To(Equal("Kepler-22 b"))
			Expect(util.SafeString(resultSet.Rows[0].Data[1].Value)).To(Equal("2.4"))
			Expect(resultSet.Rows[1].Data[2].Value).To(BeNil())
		})

		It("surfaces a service-reported query error as TransportError", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(votableErrorBody))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			_, err := client.QuerySync(ctx, "SELECT pl_nonsense FROM pscomppars")

			var terr *exovel.TransportError
			Expect(errors.As(err, &terr)).To(BeTrue())
			Expect(terr.Error()).To(ContainSubstring("pl_nonsense"))
		})

		It("fails with TransportError on an unparsable body without retrying", func() {
			var calls int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Write([]byte("this is not xml"))
			}))
			defer server.Close()

			client := NewClient(server.URL, tuned()...)
			_, err := client.QuerySync(ctx, "SELECT pl_name FROM pscomppars")

			var terr *exovel.TransportError
			Expect(errors.As(err, &terr)).To(BeTrue())
			Expect(calls).To(Equal(1))
		})
	})

	Context("QuerySync with json responses", func() {
		It("recovers column order and types from the first row", func() {
			body := `[
				{"pl_name": "Kepler-22 b", "pl_rade": 2.4, "pl_bmasse": null},
				{"pl_name": "TRAPPIST-1 e", "pl_rade": 0.92, "pl_bmasse": 0.69}
			]`
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.FormValue("FORMAT")).To(Equal("json"))
				w.Write([]byte(body))
			}))
			defer server.Close()

			client := NewClient(server.URL, WithFormat(FormatJSON))
			resultSet, err := client.QuerySync(ctx, "SELECT pl_name, pl_rade, pl_bmasse FROM pscomppars")
			Expect(err).ToNot(HaveOccurred())

			columns := resultSet.ResultSetMetadata.ColumnInfo
			Expect(len(columns)).To(Equal(3))
			Expect(util.SafeString(columns[0].Name)).To(Equal("pl_name"))
			Expect(util.SafeString(columns[0].Type)).To(Equal("char"))
			Expect(util.SafeString(columns[1].Name)).To(Equal("pl_rade"))
			Expect(util.SafeString(columns[1].Type)).To(Equal("double"))
			// null in the first row, type resolved from the second
			Expect(util.SafeString(columns[2].Type)).To(Equal("double"))

			Expect(len(resultSet.Rows)).To(Equal(2))
			Expect(resultSet.Rows[0].Data[2].Value).To(BeNil())
			Expect(util.SafeString(resultSet.Rows[1].Data[2].Value)).To(Equal("0.69"))
		})

		It("returns an empty result set for an empty json array", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("[]"))
			}))
			defer server.Close()

			client := NewClient(server.URL, WithFormat(FormatJSON))
			resultSet, err := client.QuerySync(ctx, "SELECT pl_name FROM pscomppars WHERE sy_pnum=99")
			Expect(err).ToNot(HaveOccurred())
			Expect(len(resultSet.Rows)).To(Equal(0))
		})
	})

	Context("retry behavior", func() {
		It("retries 5xx responses and succeeds once the service recovers", func() {
			var calls int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				if calls < 3 {
					http.Error(w, "service overloaded", http.StatusServiceUnavailable)
					return
				}
				w.Write([]byte(votableBody))
			}))
			defer server.Close()

			client := NewClient(server.URL, tuned()...)
			resultSet, err := client.QuerySync(ctx, "SELECT pl_name, pl_rade, pl_bmasse FROM pscomppars")
			Expect(err).ToNot(HaveOccurred())
			Expect(calls).To(Equal(3))
			Expect(len(resultSet.Rows)).To(Equal(2))
		})

		It("gives up after the attempt bound with a TransportError carrying the status", func() {
			var calls int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				http.Error(w, "boom", http.StatusInternalServerError)
			}))
			defer server.Close()

			client := NewClient(server.URL, tuned()...)
			_, err := client.QuerySync(ctx, "SELECT pl_name FROM pscomppars")

			var terr *exovel.TransportError
			Expect(errors.As(err, &terr)).To(BeTrue())
			Expect(terr.StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(terr.Snippet).To(ContainSubstring("boom"))
			Expect(calls).To(Equal(3))
		})

		It("does not retry 4xx responses", func() {
			var calls int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				http.Error(w, "bad query", http.StatusBadRequest)
			}))
			defer server.Close()

			client := NewClient(server.URL, tuned()...)
			_, err := client.QuerySync(ctx, "SELECT pl_name FROM pscomppars")

			var terr *exovel.TransportError
			Expect(errors.As(err, &terr)).To(BeTrue())
			Expect(terr.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(calls).To(Equal(1))
		})

		It("retries connection failures up to the attempt bound", func() {
			// a server that is already closed refuses connections
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			server.Close()

			client := NewClient(server.URL, tuned()...)
			_, err := client.QuerySync(ctx, "SELECT pl_name FROM pscomppars")

			var terr *exovel.TransportError
			Expect(errors.As(err, &terr)).To(BeTrue())
			Expect(terr.Unwrap()).To(HaveOccurred())
		})

		It("stops waiting when the context is cancelled", func() {
			var calls int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				http.Error(w, "boom", http.StatusInternalServerError)
			}))
			defer server.Close()

			cancelCtx, cancel := context.WithCancel(ctx)
			cancel()

			client := NewClient(server.URL, WithMaxAttempts(3), WithBackoff(time.Hour))
			_, err := client.QuerySync(cancelCtx, "SELECT pl_name FROM pscomppars")

			var terr *exovel.TransportError
			Expect(errors.As(err, &terr)).To(BeTrue())
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		})
	})
})

// tuned shortens retry timing so specs run fast.
func tuned() []Option {
	return []Option{WithMaxAttempts(3), WithBackoff(time.Millisecond)}
}
