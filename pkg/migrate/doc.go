/*
Package migrate holds the rule sets that move frontend code off the generated
API client and onto the get/post/put/del helpers.

	  client.get('CalisthenicsAPI', '/users')      ──►  get('/users')
	  client.post('CalisthenicsAPI', `/u`, { body: p }) ──► post(`/u`, p)

	  import { generateClient } from 'aws-amplify/api';
	                     │
	                     ▼
	  import { get, post, put, del } from '../../lib/api';

🎯 Purpose:
  - Build the ordered call-site rules (one per verb family and quote style)
  - Rewrite the factory import and drop the client initialization
  - Count call sites left behind, for the verification pass

⚠️ Limits:
  - Matching is lexical. Calls whose arguments span lines, bodies with nested
    braces and escaped quotes inside paths are left untouched.
  - get options objects are dropped, not carried over.
  - Files deeper than three directories below the source root import from
    two levels up.

🔍 Example:

	m, err := migrate.New(migrate.DefaultCallSpec(), migrate.DefaultImportSpec(), "src")
	if err != nil {
		return err
	}
	res, err := m.Apply(ctx, content, "src/components/admin/Users.jsx")
	if err != nil {
		return err
	}
	fmt.Println(res.RuleCounts)
*/
package migrate
